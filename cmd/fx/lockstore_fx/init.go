package lockstore_fx

import (
	"go.uber.org/fx"

	"payhub/pkg/lockstore"
)

var Module = fx.Provide(provideLockStore)

func provideLockStore() lockstore.Store {
	return lockstore.NewMemoryStore()
}
