package admin

import (
	"veena_crackers_back_end/internal/console"
	"veena_crackers_back_end/internal/store"
)

// Dépendances injectées au démarrage par cmd/server.
var (
	Engine *console.Engine
	Store  store.OrderStore
)

func Init(s store.OrderStore, engine *console.Engine) {
	Store = s
	Engine = engine
}
