package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"keytally/log"
)

const playbackRate = beep.SampleRate(48000)

// SpeakerPlayer renders commands through the default output device.
// One-shot sounds are decoded lazily from their files; loop sounds are
// decoded fully into memory once so the loop boundary is gapless.
type SpeakerPlayer struct {
	mu      sync.Mutex
	once    sync.Once
	initErr error
	open    []*os.File
	loops   map[string]*beep.Buffer
}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{loops: make(map[string]*beep.Buffer)}
}

// ensure initializes the speaker on first use. A failed init disables
// playback but the player keeps accepting commands as no-ops so the
// bus never backs up on a dead audio stack.
func (p *SpeakerPlayer) ensure() error {
	p.once.Do(func() {
		p.initErr = speaker.Init(playbackRate, playbackRate.N(time.Millisecond*100))
		if p.initErr != nil {
			log.Errorf("audio init failed, playback disabled: %v", p.initErr)
		}
	})
	return p.initErr
}

func (p *SpeakerPlayer) Play(paths []string) {
	if p.ensure() != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	var seq []beep.Streamer
	for _, path := range paths {
		s, ok := p.openStream(path)
		if !ok {
			continue
		}
		seq = append(seq, s)
	}
	if len(seq) > 0 {
		speaker.Play(beep.Seq(seq...))
	}
}

func (p *SpeakerPlayer) PlayLoop(intro, loop string) {
	if p.ensure() != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	var seq []beep.Streamer
	if s, ok := p.openStream(intro); ok {
		seq = append(seq, s)
	}
	if s, ok := p.loopStream(loop); ok {
		seq = append(seq, s)
	}
	if len(seq) > 0 {
		speaker.Play(beep.Seq(seq...))
	}
}

func (p *SpeakerPlayer) Stop() {
	if p.ensure() != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear()
}

// clear silences the speaker and releases files still held by
// abandoned one-shot streamers. Callers hold p.mu.
func (p *SpeakerPlayer) clear() {
	speaker.Clear()
	for _, f := range p.open {
		f.Close()
	}
	p.open = nil
}

// openStream decodes path lazily for one-shot playback. The file stays
// open until the next clear.
func (p *SpeakerPlayer) openStream(path string) (beep.Streamer, bool) {
	if path == "" {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("sound %s: %v", path, err)
		return nil, false
	}
	s, format, err := decode(path, f)
	if err != nil {
		f.Close()
		log.Warnf("sound %s: %v", path, err)
		return nil, false
	}
	p.open = append(p.open, f)
	return resampled(s, format), true
}

// loopStream returns an endless streamer over the fully decoded loop
// sound. Buffers are cached per path; the decode cost is paid once.
func (p *SpeakerPlayer) loopStream(path string) (beep.Streamer, bool) {
	if path == "" {
		return nil, false
	}
	buf, ok := p.loops[path]
	if !ok {
		f, err := os.Open(path)
		if err != nil {
			log.Warnf("loop sound %s: %v", path, err)
			return nil, false
		}
		s, format, err := decode(path, f)
		if err != nil {
			f.Close()
			log.Warnf("loop sound %s: %v", path, err)
			return nil, false
		}
		buf = beep.NewBuffer(format)
		buf.Append(s)
		f.Close()
		p.loops[path] = buf
	}
	if buf.Len() == 0 {
		return nil, false
	}
	loop := beep.Loop(-1, buf.Streamer(0, buf.Len()))
	return resampled(loop, buf.Format()), true
}

func resampled(s beep.Streamer, format beep.Format) beep.Streamer {
	if format.SampleRate == playbackRate {
		return s
	}
	return beep.Resample(4, format.SampleRate, playbackRate, s)
}

// decode picks a decoder from the file extension.
func decode(path string, f *os.File) (beep.Streamer, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported sound format %q", filepath.Ext(path))
	}
}

// Probe reports whether path decodes, for diagnostics.
func Probe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = decode(path, f)
	return err
}
