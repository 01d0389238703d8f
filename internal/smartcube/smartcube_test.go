package smartcube

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
)

func TestBuildCommand(t *testing.T) {
	got := BuildCommand(CmdFlash)
	want := []byte{0x2A, 0x01, 0x41, 0x6C, 0x0D, 0x0A}
	if !bytes.Equal(got, want) {
		t.Errorf("BuildCommand(flash) = % X, want % X", got, want)
	}
}

func TestParseFrame_Battery(t *testing.T) {
	// type 0x05, level 0x4B (75%)
	data := []byte{0x2A, 0x05, 0x05, 0x4B, 0x00, 0x0D, 0x0A}
	var sum byte
	for _, b := range data[:4] {
		sum += b
	}
	data[4] = sum

	f, err := ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if f.Type != MsgTypeBattery {
		t.Errorf("Type = 0x%02X", f.Type)
	}
	level, err := DecodeBattery(f)
	if err != nil {
		t.Fatalf("DecodeBattery: %v", err)
	}
	if level != 75 {
		t.Errorf("level = %d, want 75", level)
	}
}

func TestParseFrame_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{0x2A, 0x01}, ErrFrameTooShort},
		{"prefix", []byte{0x00, 0x05, 0x05, 0x4B, 0x00, 0x0D, 0x0A}, ErrInvalidPrefix},
		{"length", []byte{0x2A, 0x09, 0x05, 0x4B, 0x00, 0x0D, 0x0A}, ErrInvalidLength},
		{"suffix", []byte{0x2A, 0x05, 0x05, 0x4B, 0x00, 0x0D, 0x00}, ErrInvalidSuffix},
		{"checksum", []byte{0x2A, 0x05, 0x05, 0x4B, 0x00, 0x0D, 0x0A}, ErrInvalidChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFrame(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeBattery_WrongType(t *testing.T) {
	if _, err := DecodeBattery(Frame{Type: MsgTypeCubeType, Payload: []byte{1}}); !errors.Is(err, ErrUnexpectedFrame) {
		t.Errorf("err = %v, want ErrUnexpectedFrame", err)
	}
}

type fakeSender struct {
	mu   sync.Mutex
	sent []Command
}

func (f *fakeSender) Send(cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeSender) commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.sent...)
}

func TestBacklight_FollowsInspectionAndSolve(t *testing.T) {
	sched := cubetrainer.NewManualScheduler(clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	timer := cubetrainer.NewTimer(
		cubetrainer.WithClock(sched.Clock()),
		cubetrainer.WithScheduler(sched),
		cubetrainer.WithGenerator(cubetrainer.NewGenerator(rand.NewPCG(5, 6))),
	)

	b := NewBacklight(&fakeSender{}, zerolog.Nop())
	detach := b.Attach(timer)
	defer detach()

	timer.RequestInspection()
	sched.Advance(15 * time.Second)
	sched.Advance(3 * time.Second)
	timer.RequestStop()

	var got []Command
	for len(b.queue) > 0 {
		got = append(got, <-b.queue)
	}

	want := []Command{CmdSlowFlash, CmdFlash, CmdToggleBacklight}
	if len(got) != len(want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBacklight_RunSendsQueued(t *testing.T) {
	sender := &fakeSender{}
	b := NewBacklight(sender, zerolog.Nop())

	b.Handle(cubetrainer.Event{Kind: cubetrainer.EventSolve})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(sender.commands()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if got := sender.commands(); len(got) != 1 || got[0] != CmdToggleBacklight {
		t.Errorf("sent = %v, want [toggle_backlight]", got)
	}
}

func TestBacklight_DropsWhenQueueFull(t *testing.T) {
	b := NewBacklight(&fakeSender{}, zerolog.Nop())
	for i := 0; i < cap(b.queue)+3; i++ {
		b.Handle(cubetrainer.Event{Kind: cubetrainer.EventSolve})
	}
	if len(b.queue) != cap(b.queue) {
		t.Errorf("queue len = %d, want %d", len(b.queue), cap(b.queue))
	}
}
