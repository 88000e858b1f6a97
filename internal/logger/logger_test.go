package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_SetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("JSON形式で出力", func(t *testing.T) {
		var buf bytes.Buffer
		Logger{Level: "debug", Format: "json"}.SetupWriter(&buf)

		log.Debug().Str("keyword", "coffee").Msg("テスト")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "coffee", entry["keyword"])
		assert.Equal(t, "テスト", entry["message"])
	})

	t.Run("レベル未満は出力しない", func(t *testing.T) {
		var buf bytes.Buffer
		Logger{Level: "warn", Format: "json"}.SetupWriter(&buf)

		log.Info().Msg("出力されない")
		assert.Empty(t, buf.String())
	})

	t.Run("不正なレベルはinfo", func(t *testing.T) {
		var buf bytes.Buffer
		Logger{Level: "verbose", Format: "console"}.SetupWriter(&buf)

		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
		log.Info().Msg("コンソール")
		assert.Contains(t, buf.String(), "コンソール")
	})
}
