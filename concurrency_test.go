package ost

import (
	"context"
	"testing"
	"time"

	"github.com/npillmayer/ost/pagestore"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentSnapshotReaders(t *testing.T) {
	eng, _ := newTestEngine(t)
	base := appendN(t, eng, pagestore.NoPage, 0, 1000)
	head := NewHead(context.Background(), Snapshot{Root: base})
	defer head.Close()

	var g errgroup.Group
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				v := head.Load()
				size, err := eng.SizeAt(v.Root)
				if err != nil {
					return err
				}
				// every version holds 0..999 at the front
				ref, err := eng.GetAt(v.Root, i%1000)
				if err != nil {
					return err
				}
				if ref != ElementRef(i%1000) || size < 1000 {
					t.Errorf("version %d: got %d at %d, size %d", v.Seq, ref, i%1000, size)
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		root := base
		for i := 0; i < 300; i++ {
			var err error
			if root, err = eng.InsertAt(root, 1000+i, ElementRef(5000+i)); err != nil {
				return err
			}
			if _, err = head.Publish(Snapshot{Root: root}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())
	final := head.Load()
	require.Equal(t, uint64(300), final.Seq)
	size, err := eng.SizeAt(final.Root)
	require.NoError(t, err)
	require.Equal(t, 1300, size)
}

func TestHeadSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	head := NewHead(ctx, Snapshot{})
	require.Equal(t, uint64(0), head.Load().Seq)

	ch, err := head.Subscribe(ctx, 8)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		v, err := head.Publish(Snapshot{Root: pagestore.Addr(i * testPageSize), AllocCursor: uint64(i)})
		require.NoError(t, err)
		require.Equal(t, uint64(i), v.Seq)
	}
	for i := 1; i <= 3; i++ {
		select {
		case v := <-ch:
			require.Equal(t, uint64(i), v.Seq)
			require.Equal(t, pagestore.Addr(i*testPageSize), v.Root)
			require.Equal(t, uint64(i), v.AllocCursor)
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout waiting for version %d", i)
		}
	}
	head.Close()
	_, err = head.Publish(Snapshot{})
	require.ErrorIs(t, err, ErrHeadClosed)
	_, err = head.Subscribe(ctx, 1)
	require.ErrorIs(t, err, ErrHeadClosed)
}
