package types

// ConnectionState is the runtime reachability as judged by the health
// poll loop, independent of any per-thread event stream.
type ConnectionState string

const (
	ConnChecking     ConnectionState = "checking"
	ConnOnline       ConnectionState = "online"
	ConnOffline      ConnectionState = "offline"
	ConnReconnecting ConnectionState = "reconnecting"
)
