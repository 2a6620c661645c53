package course

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseInputValidate(t *testing.T) {
	ok := CourseInput{Topic: "Go", Experience: 1, TotalWeeks: 4, HoursPerWeek: 6, LearningStyle: 2, Motivation: MotivationFun}
	require.NoError(t, ok.Validate())

	bad := CourseInput{Experience: 5, TotalWeeks: 0, HoursPerWeek: 100, LearningStyle: -1, Motivation: MotivationOther}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	for _, want := range []string{"topic", "experience", "total_weeks", "hours_per_week", "learning_style", "custom_motivation"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestCourseInputMap(t *testing.T) {
	m := CourseInput{Topic: " Rust ", Experience: 2, TotalWeeks: 6, HoursPerWeek: 12, LearningStyle: 1, Motivation: MotivationOther, CustomMotivation: "build a game"}.Map()
	assert.Equal(t, "Rust", m.Topic)
	assert.Equal(t, "I'm confident / advanced", m.Experience)
	assert.Equal(t, "6 weeks", m.TotalWeeks)
	assert.Equal(t, "Skill Path", m.LearningStyle)
	assert.Equal(t, "Other", m.Motivation)
	assert.Equal(t, "build a game", m.CustomMotivation)
}

func TestDifficultyLevel(t *testing.T) {
	assert.Equal(t, DifficultyLow, DifficultyLevel(4))
	assert.Equal(t, DifficultyLow, DifficultyLevel(10))
	assert.Equal(t, DifficultyMedium, DifficultyLevel(11))
	assert.Equal(t, DifficultyMedium, DifficultyLevel(18))
	assert.Equal(t, DifficultyHigh, DifficultyLevel(19))
}

func TestProgressUpdateRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	path := "req/course_outline.json"
	msg := "boom"
	cases := []ProgressUpdate{
		{Step: StageCourseOutline, Status: StatusPending, Progress: 0},
		{Step: StageCourseOutline, Status: StatusSucceeded, Timestamp: &ts, Path: &path, Progress: 14},
		{Step: StageModuleBlocks, Status: StatusFailed, Timestamp: &ts, Error: &msg, Progress: 35},
	}
	for _, in := range cases {
		raw, err := json.Marshal(in)
		require.NoError(t, err)

		var out ProgressUpdate
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, in.Step, out.Step)
		assert.Equal(t, in.Status, out.Status)
		assert.Equal(t, in.Path, out.Path)
		assert.Equal(t, in.Error, out.Error)
		assert.Equal(t, in.Progress, out.Progress)
		if in.Timestamp == nil {
			assert.Nil(t, out.Timestamp)
		} else {
			require.NotNil(t, out.Timestamp)
			assert.True(t, in.Timestamp.Equal(*out.Timestamp))
		}
		assert.Equal(t, in.Record().Status, out.Record().Status)
	}
}

func TestProgressUpdateNullFields(t *testing.T) {
	raw, err := json.Marshal(ProgressUpdate{Step: StageWeekPlans})
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"week_plans","status":0,"timestamp":null,"path":null,"error":null,"progress":0}`, string(raw))
}
