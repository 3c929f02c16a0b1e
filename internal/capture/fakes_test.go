package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/andresmejia3/faceid/internal/types"
)

// solid returns a w x h image filled with c.
func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fakeStream replays frames in order and repeats the last one.
type fakeStream struct {
	mu     sync.Mutex
	frames []image.Image
	reads  int
	closed bool
}

func (s *fakeStream) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("stream closed")
	}
	if len(s.frames) == 0 {
		return nil, errors.New("no frames")
	}
	i := s.reads
	if i >= len(s.frames) {
		i = len(s.frames) - 1
	}
	s.reads++
	return s.frames[i], nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type fakeDevices struct {
	stream Stream
	err    error
	calls  int
}

func (d *fakeDevices) UserMedia(ctx context.Context) (Stream, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

type fakeView struct {
	label  string
	bound  Stream
	stills []image.Image
}

func (v *fakeView) BindPreview(s Stream)      { v.bound = s }
func (v *fakeView) ShowStill(img image.Image) { v.stills = append(v.stills, img) }
func (v *fakeView) Label() string             { return v.label }

type fakeNotifier struct {
	mu          sync.Mutex
	alerts      []string
	navigations []string
}

func (n *fakeNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

func (n *fakeNotifier) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigations = append(n.navigations, target)
}

type fakeClient struct {
	mu      sync.Mutex
	signups []string
	logins  []types.Payload
	photos  []types.Payload
	res     types.AuthResult
	err     error
}

func (c *fakeClient) Signup(ctx context.Context, name string, photo types.Payload) (types.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signups = append(c.signups, name)
	c.photos = append(c.photos, photo)
	return c.res, c.err
}

func (c *fakeClient) Login(ctx context.Context, photo types.Payload) (types.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logins = append(c.logins, photo)
	return c.res, c.err
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.signups) + len(c.logins)
}

type fakeJournal struct {
	mu       sync.Mutex
	attempts []types.Attempt
}

func (j *fakeJournal) Record(ctx context.Context, a types.Attempt) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, a)
	return int64(len(j.attempts)), nil
}
