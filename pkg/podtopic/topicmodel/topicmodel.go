// Package topicmodel defines the contract between the query pipeline and a
// trained statistical topic model.
package topicmodel

import "github.com/cognicore/podtopic/pkg/podtopic/vocab"

// TopicProb is the probability mass a model assigns to one topic.
type TopicProb struct {
	Topic int     `json:"topic"`
	Prob  float64 `json:"prob"`
}

// Distribution holds one entry per topic with non-negligible mass. It may
// be shorter than the topic count, need not sum to 1 and is not sorted.
type Distribution []TopicProb

// Model infers topic distributions for documents.
//
// Infer must be a pure function of the document and the trained parameters.
// Whether a Model may be used from several goroutines at once is up to the
// implementation; callers must check its documentation.
type Model interface {
	NumTopics() int
	VocabSize() int
	Infer(doc vocab.BagOfWords) Distribution
}

// WordWeight is a vocabulary id with its weight inside a topic.
type WordWeight struct {
	ID     int
	Weight float64
}

// Describer is implemented by models that can list a topic's top words.
type Describer interface {
	TopWords(topic, n int) []WordWeight
}
