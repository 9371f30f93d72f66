package root

import (
	"context"

	"go.uber.org/zap"

	"fateline/internal/engine"
	"fateline/internal/storage"
)

var verbose bool

func buildLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openEngine opens the database, hydrates an engine over it and returns a
// cleanup that flushes pending state and closes everything.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	cfg, err := engine.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DBPath
	if path == "" {
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	log := buildLogger()
	eng := engine.New(storage.NewBlobRepo(db), cfg, engine.WithLogger(log))
	if err := eng.Hydrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close(context.Background())
		_ = log.Sync()
		_ = db.Close()
	}
	return eng, cleanup, nil
}
