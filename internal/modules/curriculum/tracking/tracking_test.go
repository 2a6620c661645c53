package tracking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

func fixture() *course.CourseDocument {
	return &course.CourseDocument{Course: course.CourseOutlineDoc{
		Title: "Go",
		Weeks: []course.WeekDoc{{
			WeekTopic: "Intro",
			WeekModules: []course.ModuleDoc{{
				ModuleTitle: "Foo",
				ContentBlocks: []course.BlockDoc{
					{BlockTitle: "A"}, {BlockTitle: "B"}, {BlockTitle: "C"},
				},
			}},
		}},
	}}
}

func TestFindBlockErrors(t *testing.T) {
	doc := fixture()
	_, err := FindBlock(doc, BlockKey{"intro", "Foo", "A"})
	assert.True(t, errors.Is(err, ErrWeekNotFound))
	_, err = FindBlock(doc, BlockKey{"Intro", "foo", "A"})
	assert.True(t, errors.Is(err, ErrModuleNotFound))
	_, err = FindBlock(doc, BlockKey{"Intro", "Foo", "a"})
	assert.True(t, errors.Is(err, ErrBlockNotFound))

	b, err := FindBlock(doc, BlockKey{"Intro", "Foo", "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", b.BlockTitle)
}

func TestSetCompletedAndCompletion(t *testing.T) {
	doc := fixture()
	assert.Equal(t, 0.0, Completion(doc))

	require.NoError(t, SetCompleted(doc, BlockKey{"Intro", "Foo", "A"}, true))
	assert.True(t, doc.Course.Weeks[0].WeekModules[0].ContentBlocks[0].Completed)
	assert.Equal(t, 33.33, Completion(doc))

	require.NoError(t, SetCompleted(doc, BlockKey{"Intro", "Foo", "B"}, true))
	assert.Equal(t, 66.67, Completion(doc))

	s := Summarize("req-1", doc)
	assert.Equal(t, "req-1", s.CourseID)
	assert.Equal(t, 66.67, s.CourseProgress)
}

func TestDecode(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.True(t, errors.Is(err, ErrMalformedDocument))

	doc, err := Decode([]byte(`{"course_outline":{"title":"Go","weeks":[]},"user_requirement":{"topic":"Go"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Go", doc.Course.Title)
}
