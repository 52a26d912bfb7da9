package pagestore

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	in, err := NewInstrumented(NewMemory(), reg, "test")
	require.NoError(t, err)
	require.NoError(t, in.WritePage(PageSize4K, page(PageSize4K, 1)))
	p := make([]byte, PageSize4K)
	require.NoError(t, in.ReadPage(PageSize4K, p))
	require.NoError(t, in.ReadPage(PageSize4K, p[:100]))
	require.Error(t, in.ReadPage(8*PageSize4K, p))

	require.Equal(t, 1.0, testutil.ToFloat64(in.Pages("write")))
	require.Equal(t, float64(PageSize4K), testutil.ToFloat64(in.Bytes("write")))
	require.Equal(t, 2.0, testutil.ToFloat64(in.Pages("read")))
	require.Equal(t, float64(PageSize4K+100), testutil.ToFloat64(in.Bytes("read")))
	require.Equal(t, 1.0, testutil.ToFloat64(in.Errors("read")))

	_, err = NewInstrumented(NewMemory(), reg, "test")
	require.Error(t, err, "duplicate registration")
}
