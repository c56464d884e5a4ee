// Package cli is the interactive qacurator client.
//
// NewApp wires local storage, the user and expert sessions, the API gateways
// and services, the route guard, the raw-question working set, the task
// monitor and the exporter. App.Run blocks in a REPL until the user exits.
//
// A background watcher pings the server. While online, working-set mutations
// go to the server first; while offline they stay local.
package cli
