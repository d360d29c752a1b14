package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKitError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *KitError
		contains []string
	}{
		{
			name:     "code and message",
			err:      NewValidationError("BUTTON_INVALID_SIZE", "invalid size"),
			contains: []string{"[BUTTON_INVALID_SIZE]", "invalid size"},
		},
		{
			name: "component and file",
			err: NewValidationError("STORY_INVALID", "bad story").
				WithComponent("stories").
				WithFile("stories.yml"),
			contains: []string{"component:stories", "stories.yml", "bad story"},
		},
		{
			name: "context is sorted",
			err: NewValidationError("X", "msg").
				WithContext("b", 2).
				WithContext("a", 1),
			contains: []string{"(a=1, b=2)"},
		},
		{
			name:     "cause",
			err:      NewIOError(ErrCodeReadFailed, "read failed", fmt.Errorf("disk gone")),
			contains: []string{"read failed: disk gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestKitError_IsMatchesTypeAndCode(t *testing.T) {
	sentinel := NewValidationError("BUTTON_MISSING_CHILDREN", "children are required")
	fresh := NewValidationError("BUTTON_MISSING_CHILDREN", "children are required").
		WithContext("mode", "link")

	assert.True(t, stderrors.Is(fresh, sentinel))
	assert.True(t, stderrors.Is(fmt.Errorf("wrapped: %w", fresh), sentinel))
	assert.False(t, stderrors.Is(NewValidationError("OTHER", ""), sentinel))
	assert.False(t, stderrors.Is(NewConfigError("BUTTON_MISSING_CHILDREN", ""), sentinel))
}

func TestKitError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("A", "b")))
	assert.False(t, IsValidation(NewConfigError("A", "b")))
	assert.False(t, IsValidation(stderrors.New("plain")))
	assert.True(t, IsSecurityError(ErrInvalidOrigin("http://evil.example")))
	assert.Equal(t, "A", CodeOf(fmt.Errorf("x: %w", NewValidationError("A", "b"))))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidationError("A", "b")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrInvalidOrigin("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound("story", "primary")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(NewIOError(ErrCodeReadFailed, "x", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("plain")))
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestHandler_Handle(t *testing.T) {
	logger := &recordingLogger{}
	h := NewHandler(logger)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, NewValidationError("A", "b"))
	h.Handle(ctx, ErrInvalidOrigin("x"))
	h.Handle(ctx, stderrors.New("plain"))

	assert.Equal(t, []string{"Validation error occurred"}, logger.warns)
	assert.Equal(t, []string{"Security error occurred", "Unhandled error occurred"}, logger.errors)
}

func TestCollector(t *testing.T) {
	t.Run("empty collector", func(t *testing.T) {
		c := NewCollector()
		assert.False(t, c.HasErrors())
		assert.NoError(t, c.Err())
	})

	t.Run("single error is returned as is", func(t *testing.T) {
		c := NewCollector()
		first := NewValidationError("A", "first")
		c.Add(nil)
		c.Add(first)
		assert.Equal(t, 1, c.Len())
		assert.Same(t, first, c.Err())
	})

	t.Run("multiple errors are folded", func(t *testing.T) {
		c := NewCollector()
		first := NewValidationError("A", "first")
		c.Add(first)
		c.Add(NewValidationError("B", "second"))

		err := c.Err()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "second")
		assert.Equal(t, ErrCodeValidationFailed, CodeOf(err))
		assert.True(t, stderrors.Is(err, first))

		c.Clear()
		assert.False(t, c.HasErrors())
	})

	t.Run("concurrent adds", func(t *testing.T) {
		c := NewCollector()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c.Add(fmt.Errorf("error %d", i))
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 20, c.Len())
		assert.Len(t, c.Errors(), 20)
	})
}
