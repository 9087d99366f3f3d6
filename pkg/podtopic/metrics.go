package podtopic

import "github.com/rcrowley/go-metrics"

var (
	DocsNormalized = metrics.NewRegisteredMeter("podtopic.docs_normalized", nil)
	TrainTimer     = metrics.NewRegisteredTimer("podtopic.train", nil)
	QueryTimer     = metrics.NewRegisteredTimer("podtopic.query", nil)
	QueryTokens    = metrics.NewRegisteredHistogram("podtopic.query_tokens", nil, metrics.NewUniformSample(512))
	// tokens dropped because the vocabulary has never seen them
	UnknownTokens = metrics.NewRegisteredCounter("podtopic.query_unknown_tokens", nil)
)
