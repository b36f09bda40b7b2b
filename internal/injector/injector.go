//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/desk/cursor"
	"github.com/zeusync/deskcheck/internal/desk/input"
)

func InitializeGame(cfg config.Config, src input.Source, backend cursor.Backend, extras Extras, logger log.Log) (*Game, error) {
	wire.Build(GameSet)
	return nil, nil
}

func InitializeHeadless(cfg config.Config, extras Extras, logger log.Log) (*Headless, error) {
	wire.Build(HeadlessSet)
	return nil, nil
}
