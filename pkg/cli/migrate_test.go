package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/repository/firestore"
	"github.com/secmon-lab/hra/pkg/utils/logging"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := getIndexConfig("staging")
	gt.NoError(t, cfg.Validate())

	gt.Array(t, cfg.Collections).Length(1).Required()
	col := cfg.Collections[0]
	gt.Value(t, col.Name).Equal(firestore.CollectionName("staging", firestore.CollectionSurveyAnswers))
	gt.Value(t, collectionNames(cfg)).Equal([]string{col.Name})

	gt.Array(t, col.Indexes).Length(1).Required()
	fields := col.Indexes[0].Fields
	gt.Array(t, fields).Length(2).Required()
	gt.Value(t, fields[0].Path).Equal("user_id")
	gt.Value(t, fields[1].Path).Equal("created_at")
	gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
	gt.Value(t, fields[1].Order).Equal(fireconf.OrderAscending)
}

func TestLogMigrationPlan(t *testing.T) {
	t.Run("no changes", func(t *testing.T) {
		var buf bytes.Buffer
		logMigrationPlan(logging.New(&buf, slog.LevelInfo, logging.FormatJSON), &fireconf.DiffResult{})
		gt.String(t, buf.String()).Contains("No changes required")
	})

	t.Run("index to add", func(t *testing.T) {
		var buf bytes.Buffer
		diff := &fireconf.DiffResult{
			Collections: []fireconf.CollectionDiff{
				{
					Name:         "job_survey_answers",
					Action:       fireconf.ActionModify,
					IndexesToAdd: getIndexConfig("").Collections[0].Indexes,
				},
			},
		}
		logMigrationPlan(logging.New(&buf, slog.LevelInfo, logging.FormatJSON), diff)

		out := buf.String()
		gt.String(t, out).Contains(`"collection":"job_survey_answers"`)
		gt.String(t, out).Contains(`"action":"MODIFY"`)
		gt.String(t, out).Contains(`"indexesToAdd":1`)
		gt.String(t, out).NotContains("No changes required")
	})
}
