package orchestrator

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"newsreader/internal/news"
)

// MaxSpeechChars is the longest input sent for synthesis.
const MaxSpeechChars = 4096

// OpenAIVoices maps reader voices to OpenAI speech voices.
var OpenAIVoices = map[news.Voice]string{
	news.VoiceKore:   "coral",
	news.VoicePuck:   "ash",
	news.VoiceCharon: "onyx",
	news.VoiceFenrir: "echo",
	news.VoiceZephyr: "nova",
}

// Speech is synthesized audio for a block of text.
type Speech struct {
	// Audio is base64-encoded MP3.
	Audio         string     `json:"audio"`
	Format        string     `json:"format"`
	Voice         news.Voice `json:"voice"`
	ProviderVoice string     `json:"providerVoice"`
	// Truncated reports that text beyond MaxSpeechChars was not read.
	Truncated bool `json:"truncated"`
}

// providerVoice resolves a reader voice name. Unsupported names fall back to
// news.DefaultVoice.
func (o *Orchestrator) providerVoice(name string) (news.Voice, string) {
	v := news.ParseVoice(name)
	if id, ok := o.opts.Voices[v]; ok && id != "" {
		return v, id
	}
	return v, OpenAIVoices[v]
}

// TextToSpeech synthesizes text with voice, or s.TTSVoice when voice is empty.
func (o *Orchestrator) TextToSpeech(ctx context.Context, text, voice string, s news.Settings) (Speech, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Speech{}, &UserError{Op: opSpeech, Message: "There is no text to read aloud.", Err: errors.New("empty text")}
	}
	if o.speech == nil {
		return Speech{}, o.fail(opSpeech, errors.New("no speech client configured"))
	}
	if strings.TrimSpace(voice) == "" {
		voice = string(s.TTSVoice)
	}
	v, providerVoice := o.providerVoice(voice)

	input, truncated := news.Clip(text, MaxSpeechChars)
	if truncated {
		o.log.Warn("speech input truncated", "op", opSpeech, "chars", len([]rune(text)), "limit", MaxSpeechChars)
	}

	var buf bytes.Buffer
	if err := o.speech.TTS(ctx, o.opts.SpeechModel, providerVoice, input, &buf); err != nil {
		return Speech{}, o.fail(opSpeech, err)
	}
	if buf.Len() == 0 {
		return Speech{}, o.fail(opSpeech, errors.New("empty audio"))
	}
	return Speech{
		Audio:         base64.StdEncoding.EncodeToString(buf.Bytes()),
		Format:        "mp3",
		Voice:         v,
		ProviderVoice: providerVoice,
		Truncated:     truncated,
	}, nil
}
