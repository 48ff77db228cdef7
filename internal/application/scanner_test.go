package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshift/libreshift/internal/application"
	"github.com/libreshift/libreshift/internal/domain/model"
)

func newScanner() *application.Scanner {
	return application.NewScanner(application.NewRewriter(application.DefaultCatalog()), discardLogger())
}

func TestScanExcludesLockFilesAndBinaries(t *testing.T) {
	files := []model.FileRecord{
		{Path: "src/app.ts", Content: "export const app = 1;\n"},
		{Path: "package-lock.json", Content: `{"lockfileVersion": 3}`},
		{Path: "assets/logo.png", Content: "\x89PNG\r\n\x1a\n\x00\x00"},
		{Path: "nested/yarn.lock", Content: "# yarn lockfile v1\n"},
	}

	result, err := newScanner().Scan(files)

	require.NoError(t, err)
	require.Len(t, result.Cleaned, 1)
	assert.Equal(t, "src/app.ts", result.Cleaned[0].Path)
	assert.Equal(t, []string{"package-lock.json", "assets/logo.png", "nested/yarn.lock"}, result.Excluded)
}

func TestScanPreservesInputOrder(t *testing.T) {
	files := []model.FileRecord{
		{Path: "z.ts", Content: "z\n"},
		{Path: "a.ts", Content: "a\n"},
		{Path: "m.ts", Content: "m\n"},
	}

	result, err := newScanner().Scan(files)

	require.NoError(t, err)
	paths := make([]string, len(result.Cleaned))
	for i, f := range result.Cleaned {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"z.ts", "a.ts", "m.ts"}, paths)
}

func TestScanNothingEligible(t *testing.T) {
	files := []model.FileRecord{
		{Path: "package-lock.json", Content: `{"lockfileVersion": 3}`},
		{Path: "bun.lockb", Content: "binary\x00stuff"},
	}

	result, err := newScanner().Scan(files)

	assert.Nil(t, result)
	var noFiles *model.NoEligibleFilesError
	require.ErrorAs(t, err, &noFiles)
	assert.Equal(t, []string{"package-lock.json", "bun.lockb"}, noFiles.Excluded)
}

func TestScanAggregatesChanges(t *testing.T) {
	files := []model.FileRecord{
		{Path: "src/llm.ts", Content: "import OpenAI from 'openai';\nconst c = new OpenAI();\n"},
		{Path: "src/util.ts", Content: "export const noop = () => {};\n"},
	}

	result, err := newScanner().Scan(files)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalChanges)
	assert.Len(t, result.Changes, 2)
	assert.Equal(t, 2, result.Cleaned[0].ChangeCount)
	assert.Equal(t, 0, result.Cleaned[1].ChangeCount)
	assert.NotContains(t, result.Cleaned[0].Content, "'openai'")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    model.FileClass
	}{
		{"lock file", "package-lock.json", "{}", model.FileClassLock},
		{"nested lock file", "apps/web/pnpm-lock.yaml", "lockfileVersion: 9", model.FileClassLock},
		{"manifest", "package.json", "{}", model.FileClassConfig},
		{"compose file", "docker-compose.yml", "services: {}", model.FileClassConfig},
		{"source", "src/index.ts", "export {};", model.FileClassText},
		{"nul byte", "data.bin", "abc\x00def", model.FileClassBinary},
		{"invalid utf8", "latin1.txt", "caf\xe9", model.FileClassBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.Classify(tt.path, tt.content))
		})
	}
}
