package htmlpdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertRejectsEmptyDocument(t *testing.T) {
	c := NewConverter(Options{})
	_, err := c.Convert(context.Background(), "   \n ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty html")
}

func TestConvertHonoursCancellationWhileQueued(t *testing.T) {
	c := NewConverter(Options{MaxConcurrent: 1, Timeout: time.Second})
	// Occupy the only renderer slot so the next call has to queue.
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Convert(ctx, "<html><body>hi</body></html>")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewConverterDefaults(t *testing.T) {
	c := NewConverter(Options{})
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.Equal(t, defaultMaxConcurrent, cap(c.sem))
}
