package handlers

import "retailpos/store"

// appStore is the shared application store, set once at startup.
var appStore *store.Store

// SetStore injects the store all handlers operate on.
func SetStore(s *store.Store) {
	appStore = s
}
