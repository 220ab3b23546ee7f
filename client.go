package prtgapi

import (
	"github.com/lordmilko/PrtgAPI-sub005/core"
	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/rest"
)

type (
	PRTGConfig         = core.PRTGConfig
	PrtgRest           = rest.PrtgRest
	StreamOptions      = core.StreamOptions
	RetryEvent         = core.RetryEvent
	ParameterSet       = query.ParameterSet
	SearchFilter       = query.SearchFilter
	RequestInterceptor = core.RequestInterceptor
)

func NewPrtgRest(config *PRTGConfig) (*PrtgRest, error) {
	return rest.NewPrtgRest(config)
}

// LoadPrtgRest builds a client from a YAML config document.
func LoadPrtgRest(data []byte) (*PrtgRest, error) {
	config, err := core.LoadConfigYAML(data)
	if err != nil {
		return nil, err
	}
	return rest.NewPrtgRest(config)
}

func NewParameterSet() *ParameterSet {
	return query.NewParameterSet()
}
