package cli

import (
	"bytes"
	"testing"

	"go.uber.org/mock/gomock"

	"docrag/internal/service/mocks"
)

// setupTestServices installs mock services so bootstrap is skipped, and
// resets flag variables and services on cleanup.
func setupTestServices(t *testing.T) (*mocks.MockIngestService, *mocks.MockQueryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ingestMock := mocks.NewMockIngestService(ctrl)
	queryMock := mocks.NewMockQueryService(ctrl)

	oldIngest, oldQuery := ingestService, queryService
	ingestService, queryService = ingestMock, queryMock

	t.Cleanup(func() {
		ingestService, queryService = oldIngest, oldQuery
		ingestDocType, ingestSourceID, ingestMeta, ingestJSON = "", "", nil, false
		ingestDirJSON, queryJSON, historyJSON = false, false, false
		historyLimit = 50
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return ingestMock, queryMock
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
