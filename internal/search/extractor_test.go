package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantAnswer   string
		wantFallback bool
	}{
		{
			name:       "fenced json block",
			raw:        "```json\n{\"jawaban\": \"Formasi Analis tersedia di BKN.\"}\n```",
			wantAnswer: "Formasi Analis tersedia di BKN.",
		},
		{
			name:       "fenced block without language tag",
			raw:        "```\n{\"jawaban\": \"Silakan kunjungi sscasn.bkn.go.id\"}\n```",
			wantAnswer: "Silakan kunjungi sscasn.bkn.go.id",
		},
		{
			name:       "block surrounded by prose",
			raw:        "Berikut jawabannya:\n```json\n{\"jawaban\": \"CPNS adalah calon pegawai negeri sipil.\"}\n```\nSemoga membantu.",
			wantAnswer: "CPNS adalah calon pegawai negeri sipil.",
		},
		{
			name:       "bare json without fences",
			raw:        `{"jawaban": "PPPK adalah pegawai dengan perjanjian kerja."}`,
			wantAnswer: "PPPK adalah pegawai dengan perjanjian kerja.",
		},
		{
			name:         "plain prose falls back verbatim",
			raw:          "Maaf, saya tidak tahu jawaban pastinya berdasarkan dokumen yang tersedia.",
			wantAnswer:   "Maaf, saya tidak tahu jawaban pastinya berdasarkan dokumen yang tersedia.",
			wantFallback: true,
		},
		{
			name:         "json missing the answer field",
			raw:          "```json\n{\"answer\": \"wrong key\"}\n```",
			wantAnswer:   "```json\n{\"answer\": \"wrong key\"}\n```",
			wantFallback: true,
		},
		{
			name:         "malformed json in fence",
			raw:          "```json\n{\"jawaban\": \n```",
			wantAnswer:   "```json\n{\"jawaban\": \n```",
			wantFallback: true,
		},
		{
			name:         "answer field not a string",
			raw:          "```json\n{\"jawaban\": 42}\n```",
			wantAnswer:   "```json\n{\"jawaban\": 42}\n```",
			wantFallback: true,
		},
		{
			name:         "empty answer field",
			raw:          "```json\n{\"jawaban\": \"  \"}\n```",
			wantAnswer:   "```json\n{\"jawaban\": \"  \"}\n```",
			wantFallback: true,
		},
		{
			name:         "empty input",
			raw:          "",
			wantAnswer:   "",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, fallback := Extract(tt.raw)
			assert.Equal(t, tt.wantAnswer, answer)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}
