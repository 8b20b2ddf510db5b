package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mediatrace/internal/worker"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/serrors"
	mockstorage "mediatrace/pkg/storage/mock"
)

type fixture struct {
	storage *mockstorage.MockStorage
	video   *mockstorage.MockDomainStore
	writer  *worker.Writer
}

func setup(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		storage: mockstorage.NewMockStorage(ctrl),
		video:   mockstorage.NewMockDomainStore(ctrl),
	}
	f.storage.EXPECT().Domains(domain.KindVideo).Return(f.video).AnyTimes()
	f.storage.EXPECT().Domains(domain.KindAudio).Return(nil).AnyTimes()
	f.writer = worker.NewWriter(context.Background(), f.storage, worker.WriterOptions{QueueSize: 4})
	t.Cleanup(func() {
		_ = f.writer.Close(context.Background())
	})

	return f
}

func TestWriter_AppliesJobsInOrder(t *testing.T) {
	f := setup(t)

	var (
		mu    sync.Mutex
		saved [][]string
	)
	f.video.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d []string) error {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, d)

		return nil
	}).Times(3)

	ctx := context.Background()
	require.NoError(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"a.example"}))
	require.NoError(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"b.example", "a.example"}))
	require.NoError(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"c.example", "a.example", "b.example", "a.example"}))
	require.NoError(t, f.writer.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, [][]string{
		{"a.example"},
		{"a.example", "b.example"},
		{"a.example", "b.example", "c.example"},
	}, saved)
}

func TestWriter_SaveReturnsStoreError(t *testing.T) {
	f := setup(t)

	f.video.EXPECT().Save(gomock.Any(), []string{"a.example"}).Return(errors.New("disk full"))

	err := f.writer.Save(context.Background(), domain.KindVideo, []string{"a.example"})
	require.ErrorContains(t, err, "disk full")
}

func TestWriter_UnpersistedKindIsSkipped(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.writer.Save(context.Background(), domain.KindAudio, []string{"audio.example"}))
}

func TestWriter_RecoversPanickingStore(t *testing.T) {
	f := setup(t)

	f.video.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []string) error {
		panic("boom")
	})
	f.video.EXPECT().Save(gomock.Any(), []string{"b.example"}).Return(nil)

	err := f.writer.Save(context.Background(), domain.KindVideo, []string{"a.example"})
	require.ErrorIs(t, err, serrors.ErrInternal)
	require.NoError(t, f.writer.Save(context.Background(), domain.KindVideo, []string{"b.example"}))
}

func TestWriter_CloseDrainsQueue(t *testing.T) {
	f := setup(t)

	f.video.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	ctx := context.Background()
	require.NoError(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"a.example"}))
	require.NoError(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"b.example"}))
	require.NoError(t, f.writer.Close(ctx))

	require.ErrorIs(t, f.writer.Enqueue(ctx, domain.KindVideo, []string{"c.example"}), serrors.ErrUnavailable)
	require.ErrorIs(t, f.writer.Flush(ctx), worker.ErrClosed)
	require.NoError(t, f.writer.Close(ctx))
}

func TestWriter_FlushTimesOut(t *testing.T) {
	f := setup(t)

	release := make(chan struct{})
	f.video.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []string) error {
		<-release

		return nil
	})

	require.NoError(t, f.writer.Enqueue(context.Background(), domain.KindVideo, []string{"slow.example"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.writer.Flush(ctx), serrors.ErrTimeout)

	close(release)
	require.NoError(t, f.writer.Flush(context.Background()))
}
