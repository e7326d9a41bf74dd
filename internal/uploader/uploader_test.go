package uploader_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/internal/uploader"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

type brokenFile struct{ name string }

func (f brokenFile) Name() string        { return f.name }
func (f brokenFile) ContentType() string { return "image/png" }
func (f brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

type recorder struct {
	mu    sync.Mutex
	files []domain.File
}

func (r *recorder) onFileSelect(f domain.File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

func (r *recorder) got() []domain.File {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.File(nil), r.files...)
}

func TestSelect_DecodesAndHandsOverRawFile(t *testing.T) {
	rec := &recorder{}
	u := uploader.New("Photo 1", rec.onFileSelect)
	f := domain.NewMemoryFile("pipe.png", "image/png", []byte{1, 2, 3})

	p, err := u.Select(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,AQID", p.DataURL)
	assert.Same(t, f, p.File)
	require.Len(t, rec.got(), 1)
	assert.Same(t, f, rec.got()[0])

	st := u.State()
	assert.Equal(t, "Photo 1", st.Label)
	assert.False(t, st.Loading)
	assert.Equal(t, p.DataURL, st.Preview)
	assert.Same(t, f, st.File)
	assert.Empty(t, st.Err)
}

func TestSelect_LoadingWhileDecoding(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	u := uploader.New("Photo 1", nil, uploader.WithDecoder(func(ctx context.Context, f domain.File) (string, error) {
		close(started)
		<-release
		return "data:image/png;base64,", nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := u.Select(context.Background(), domain.NewMemoryFile("a.png", "image/png", nil))
		done <- err
	}()

	<-started
	assert.True(t, u.State().Loading)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, u.State().Loading)
}

func TestSelect_ReplacingFileFiresCallbackAgain(t *testing.T) {
	rec := &recorder{}
	u := uploader.New("Photo 1", rec.onFileSelect)
	first := domain.NewMemoryFile("a.png", "image/png", []byte("a"))
	second := domain.NewMemoryFile("b.png", "image/png", []byte("b"))

	_, err := u.Select(context.Background(), first)
	require.NoError(t, err)
	p, err := u.Select(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, []domain.File{first, second}, rec.got())
	assert.Equal(t, p.DataURL, u.State().Preview)
	assert.Same(t, second, u.State().File)
}

func TestSelect_StaleDecodeIsDiscarded(t *testing.T) {
	rec := &recorder{}
	slow := domain.NewMemoryFile("slow.png", "image/png", []byte("slow"))
	fast := domain.NewMemoryFile("fast.png", "image/png", []byte("fast"))

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	u := uploader.New("Photo 2", rec.onFileSelect, uploader.WithDecoder(func(ctx context.Context, f domain.File) (string, error) {
		if f == slow {
			close(slowStarted)
			<-releaseSlow
		}
		return uploader.DecodeDataURL(ctx, f)
	}))

	slowDone := make(chan error, 1)
	go func() {
		_, err := u.Select(context.Background(), slow)
		slowDone <- err
	}()
	<-slowStarted

	_, err := u.Select(context.Background(), fast)
	require.NoError(t, err)

	close(releaseSlow)
	assert.ErrorIs(t, <-slowDone, e.ErrStaleSelection)

	assert.Equal(t, []domain.File{fast}, rec.got())
	assert.Same(t, fast, u.State().File)
	assert.False(t, u.State().Loading)
}

func TestSelect_DecodeFailureLeavesUploaderEmpty(t *testing.T) {
	rec := &recorder{}
	u := uploader.New("Photo 1", rec.onFileSelect)

	good := domain.NewMemoryFile("good.png", "image/png", []byte("ok"))
	_, err := u.Select(context.Background(), good)
	require.NoError(t, err)

	_, err = u.Select(context.Background(), brokenFile{name: "broken.png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrDecode)

	st := u.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Preview)
	assert.Nil(t, st.File)
	assert.Equal(t, "Could not read broken.png", st.Err)
	assert.Equal(t, []domain.File{good}, rec.got())
}

func TestSelect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := uploader.New("Photo 1", nil)
	_, err := u.Select(ctx, domain.NewMemoryFile("a.png", "image/png", []byte("data")))
	assert.ErrorIs(t, err, e.ErrDecode)
	assert.ErrorIs(t, err, e.ErrCanceled)
}

func TestSelect_NilFile(t *testing.T) {
	u := uploader.New("Photo 1", nil)
	var missing *domain.MemoryFile

	_, err := u.Select(context.Background(), missing)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.False(t, u.State().Loading)
}

func TestReset(t *testing.T) {
	u := uploader.New("Photo 1", nil)
	_, err := u.Select(context.Background(), domain.NewMemoryFile("a.png", "image/png", []byte("a")))
	require.NoError(t, err)

	u.Reset()
	st := u.State()
	assert.Empty(t, st.Preview)
	assert.Nil(t, st.File)
}

func TestUploadersAreIndependent(t *testing.T) {
	rec1, rec2 := &recorder{}, &recorder{}
	u1 := uploader.New("Photo 1", rec1.onFileSelect)
	u2 := uploader.New("Photo 2", rec2.onFileSelect)
	f1 := domain.NewMemoryFile("1.png", "image/png", []byte("1"))
	f2 := domain.NewMemoryFile("2.png", "image/png", []byte("2"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _, _ = u1.Select(context.Background(), f1) }()
	go func() { defer wg.Done(); _, _ = u2.Select(context.Background(), f2) }()
	wg.Wait()

	assert.Equal(t, []domain.File{f1}, rec1.got())
	assert.Equal(t, []domain.File{f2}, rec2.got())
	assert.Same(t, f1, u1.State().File)
	assert.Same(t, f2, u2.State().File)
}

func TestDecodeDataURL_ContentTypeFallback(t *testing.T) {
	cases := []struct {
		name string
		file domain.File
		want string
	}{
		{"explicit", domain.NewMemoryFile("x.bin", "image/webp", []byte("hi")), "data:image/webp;base64,aGk="},
		{"from extension", domain.NewMemoryFile("x.png", "", []byte("hi")), "data:image/png;base64,aGk="},
		{"unknown", domain.NewMemoryFile("x.zzz-unknown", "", []byte("hi")), "data:application/octet-stream;base64,aGk="},
		{"empty file", domain.NewMemoryFile("x.gif", "image/gif", nil), "data:image/gif;base64,"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uploader.DecodeDataURL(context.Background(), tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
