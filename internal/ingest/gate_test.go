package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"docrag/internal/vectorstore/mocks"
)

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name  string
		count int
		err   error
		want  DedupResult
	}{
		{name: "new", count: 0, want: DedupNew},
		{name: "duplicate", count: 3, want: DedupDuplicate},
		{name: "store failure", err: errors.New("timeout"), want: DedupUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockVectorStore(ctrl)
			store.EXPECT().
				Count(gomock.Any(), "docs", map[string]any{MetaFingerprint: "fp1"}).
				Return(tt.count, tt.err)

			g := NewGate(store, "docs")
			assert.Equal(t, tt.want, g.Check(context.Background(), "fp1"))
		})
	}
}

func TestDedupResult_String(t *testing.T) {
	assert.Equal(t, "new", DedupNew.String())
	assert.Equal(t, "duplicate", DedupDuplicate.String())
	assert.Equal(t, "unknown", DedupUnknown.String())
	assert.Equal(t, "DedupResult(9)", DedupResult(9).String())
}

func TestParseUnknownPolicy(t *testing.T) {
	p, err := ParseUnknownPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, UnknownReject, p)

	p, err = ParseUnknownPolicy("proceed")
	require.NoError(t, err)
	assert.Equal(t, UnknownProceed, p)

	_, err = ParseUnknownPolicy("ignore")
	assert.Error(t, err)
}
