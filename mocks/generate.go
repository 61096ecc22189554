package mocks

//go:generate mockgen -destination=./mock_tick_source.go -package=mocks github.com/rxtech-lab/horizon-replay/pkg/ticksource TickSource
//go:generate mockgen -destination=./mock_replay_engine.go -package=mocks github.com/rxtech-lab/horizon-replay/internal/replay/engine ReplayEngine
//go:generate mockgen -destination=./mock_result_writer.go -package=mocks github.com/rxtech-lab/horizon-replay/internal/replay/writers ResultWriter
