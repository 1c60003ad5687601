package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== 에러 생성 =====

// TestNew는 에러 생성과 기본 속성을 테스트합니다.
func TestNew(t *testing.T) {
	t.Parallel()

	err := New(NotFound, "등록되지 않은 프로브입니다")

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, NotFound, appErr.Type())
	assert.Equal(t, "등록되지 않은 프로브입니다", appErr.Message())
	assert.NotEmpty(t, appErr.Stack(), "생성 시점의 스택이 수집되어야 합니다")
	assert.Equal(t, "[NotFound] 등록되지 않은 프로브입니다", err.Error())
}

// TestNewf는 포맷 문자열 기반 에러 생성을 테스트합니다.
func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(Unavailable, "서킷 브레이커(%s)가 열려 있습니다", "database")
	assert.Equal(t, "[Unavailable] 서킷 브레이커(database)가 열려 있습니다", err.Error())
}

// ===== 에러 래핑 =====

// TestWrap은 에러 체이닝 동작을 테스트합니다.
func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("WrapNil_ReturnsNil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Wrap(nil, System, "무시됨"))
		assert.Nil(t, Wrapf(nil, System, "무시됨 %d", 1))
	})

	t.Run("WrapExternalError", func(t *testing.T) {
		t.Parallel()
		cause := context.DeadlineExceeded
		err := Wrap(cause, Timeout, "프로브 실행 시간 초과")

		assert.ErrorIs(t, err, context.DeadlineExceeded, "표준 errors.Is로 원인에 도달해야 합니다")
		assert.Equal(t, cause, RootCause(err))
	})

	t.Run("WrapAppError_ChainPreserved", func(t *testing.T) {
		t.Parallel()
		inner := New(NotFound, "브레이커 없음")
		outer := Wrap(inner, Internal, "리셋 처리 실패")

		assert.True(t, Is(outer, NotFound))
		assert.True(t, Is(outer, Internal))
		assert.False(t, Is(outer, Timeout))
		assert.Equal(t, inner, RootCause(outer))
	})
}

// ===== 타입 검사 =====

// TestIs는 ErrorType 기반 검사 로직을 테스트합니다.
func TestIs(t *testing.T) {
	t.Parallel()

	assert.False(t, Is(nil, NotFound))
	assert.False(t, Is(errors.New("외부 에러"), NotFound))
	assert.True(t, Is(New(Conflict, "중복 등록"), Conflict))
}

// TestUnderlyingType은 가장 안쪽 AppError의 타입 추출을 테스트합니다.
func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{name: "Nil", err: nil, expected: Unknown},
		{name: "ExternalError", err: errors.New("외부"), expected: Unknown},
		{name: "SingleAppError", err: New(Timeout, "시간 초과"), expected: Timeout},
		{
			name:     "Chain_InnermostWins",
			err:      Wrap(New(NotFound, "없음"), Internal, "실패"),
			expected: NotFound,
		},
		{
			name:     "ExternalWrapped_WrapperTypeUsed",
			err:      Wrap(context.DeadlineExceeded, Timeout, "시간 초과"),
			expected: Timeout,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, UnderlyingType(tc.err))
		})
	}
}

// ===== 포맷팅 =====

// TestFormat은 %+v 상세 출력 정책을 테스트합니다.
func TestFormat(t *testing.T) {
	t.Parallel()

	inner := New(System, "연결 거부")
	outer := Wrap(inner, ExecutionFailed, "데이터베이스 프로브 실패")

	detailed := fmt.Sprintf("%+v", outer)
	assert.Contains(t, detailed, "[ExecutionFailed] 데이터베이스 프로브 실패")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "[System] 연결 거부")
	assert.Contains(t, detailed, "Stack trace:", "Root 에러의 스택은 출력되어야 합니다")

	simple := fmt.Sprintf("%v", outer)
	assert.NotContains(t, simple, "Stack trace:", "%v에서는 스택이 생략되어야 합니다")

	quoted := fmt.Sprintf("%q", inner)
	assert.Contains(t, quoted, "\"[System] 연결 거부\"")
}

// TestErrorTypeString은 ErrorType 문자열 표현을 테스트합니다.
func TestErrorTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NotFound", NotFound.String())
	assert.Equal(t, "Unavailable", Unavailable.String())
	assert.Equal(t, "Unknown", ErrorType(999).String())
}
