package catalog

// Default returns the built-in sidecar definitions used when no catalog file is configured.
func Default() []Entry {
	return []Entry{
		{Name: "cloudsql-proxy", Kind: KindExec, Command: "kill -s INT 1"},
		{Name: "vks-sidecar", Kind: KindExec, Command: "/bin/kill -s INT 1"},
		{Name: "secure-logs-configmap-reload", Kind: KindExec, Command: "/bin/killall configmap-reload"},
		{Name: "linkerd-proxy", Kind: KindPortForward, Method: "POST", Path: "/shutdown", Port: 4191},
		{Name: "secure-logs-fluentd", Kind: KindPortForward, Method: "GET", Path: "/api/processes.killWorkers", Port: 24444},
	}
}
