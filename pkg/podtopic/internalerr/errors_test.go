package internalerr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadErrorMatchesSentinelAndCause(t *testing.T) {
	err := fmt.Errorf("open bundle: %w", &LoadError{Artifact: "model", Source: "a.db", Err: os.ErrNotExist})

	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrVocabularyMismatch)
	assert.Contains(t, err.Error(), "load model from a.db")

	var le *LoadError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, "model", le.Artifact)
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, &VocabularyMismatchError{Artifact: "model", Want: "3", Got: "4"}, ErrVocabularyMismatch)
	assert.ErrorIs(t, &UnknownTopicError{Topic: 7}, ErrUnknownTopic)
	assert.ErrorIs(t, &InsufficientTopicsError{Have: 2, Want: 5}, ErrInsufficientTopics)

	assert.Equal(t, "topic 7 has no label", (&UnknownTopicError{Topic: 7}).Error())
	assert.Equal(t, "distribution has 2 topics, 5 requested", (&InsufficientTopicsError{Have: 2, Want: 5}).Error())
}

func TestVocabularyMismatchMessage(t *testing.T) {
	err := &VocabularyMismatchError{Artifact: "model", Want: "12 terms", Got: "10 terms", Detail: "vocab size"}
	assert.Equal(t, "model does not match vocabulary: want 12 terms, got 10 terms (vocab size)", err.Error())
}
