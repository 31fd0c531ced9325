package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"docrag/internal/document"
	"docrag/internal/service"
	"docrag/internal/service/mocks"
)

func TestNewServer(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("nil ingest service returns error", func(t *testing.T) {
		server, err := NewServer(&Services{Query: mocks.NewMockQueryService(ctrl)})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestService)
	})

	t.Run("nil query service returns error", func(t *testing.T) {
		server, err := NewServer(&Services{Ingest: mocks.NewMockIngestService(ctrl)})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingQueryService)
	})

	t.Run("valid services creates server", func(t *testing.T) {
		server, err := NewServer(&Services{
			Ingest: mocks.NewMockIngestService(ctrl),
			Query:  mocks.NewMockQueryService(ctrl),
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestServer_OverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	querySvc := mocks.NewMockQueryService(ctrl)
	querySvc.EXPECT().Query(gomock.Any(), service.QueryRequest{Question: "what is due?"}).
		Return(document.QueryResult{
			Answer:  "The invoice total.",
			Sources: []document.Source{{Page: 2, Text: "invoice total due"}},
		}, nil)

	server, err := NewServer(&Services{
		Ingest: mocks.NewMockIngestService(ctrl),
		Query:  querySvc,
	})
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ingest", "query", "stats"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "query",
		Arguments: map[string]any{"question": "what is due?"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content = %T", res.StructuredContent)
	assert.Equal(t, "The invoice total.", structured["answer"])
}
