package configuration

import "os"

// Executor options.
var (
	Slots = NewOption("executor.slots", "1",
		"Number of parallel slots offered by one executor. -1 means the default of one slot.").
		WithFallbackKeys("taskmanager.numberOfTaskSlots")

	TmpDirs = NewOption("io.tmp.dirs", os.TempDir(),
		"Directories for temporary files, separated by ',' or the system path list separator.").
		WithFallbackKeys("env.java.io.tmpdir")

	RPCTimeout = NewOption("rpc.ask.timeout", "10 s",
		"Timeout for blocking calls on the cluster RPC layer.").
		WithFallbackKeys("akka.ask.timeout")

	SlotTimeout = NewOptionWithoutDefault("executor.slot.timeout",
		"Timeout after which an unused slot is released. Falls back to the RPC timeout.").
		WithFallbackKeys(RPCTimeout.Key, "akka.ask.timeout")

	RegistrationTimeout = NewOption("executor.registration.timeout", "5 min",
		"Time the executor keeps trying to register before it shuts down. 'inf' disables the limit.").
		WithFallbackKeys("taskmanager.registration.timeout")

	ExitOnOutOfMemory = NewOption("executor.exit-on-oom", "false",
		"Whether the process exits when it runs out of memory.").
		WithFallbackKeys("taskmanager.jvm-exit-on-oom")

	LogPath = NewOptionWithoutDefault("executor.log.path",
		"Path of the executor log file. The stdout file and log directory derive from it.").
		WithFallbackKeys("taskmanager.log.path")

	LogLevel = NewOption("executor.log.level", "info",
		"Minimum level of emitted log entries.")

	Host = NewOptionWithoutDefault("executor.host",
		"External address of the executor. Defaults to the host name.")

	ResourceID = NewOptionWithoutDefault("executor.resource-id",
		"Identifier of this executor. Generated from the external address when unset.")

	WorkingDir = NewOptionWithoutDefault("executor.working-dir",
		"Working directory of the process. Defaults to a directory below the first tmp directory.")
)

// Resource options.
var (
	CPUCores = NewOptionWithoutDefault("executor.cpu.cores",
		"CPU cores of the executor. Defaults to the number of slots.")

	TaskHeapMemory = NewOption("executor.memory.task.heap.size", "384m",
		"Heap memory reserved for tasks.")

	TaskOffHeapMemory = NewOption("executor.memory.task.off-heap.size", "0",
		"Off-heap memory reserved for tasks.")

	NetworkMemory = NewOption("executor.memory.network.size", "64m",
		"Memory reserved for network buffers.")

	ManagedMemory = NewOption("executor.memory.managed.size", "128m",
		"Memory managed by the executor for sorting, hashing and caching.")
)

// Registration retry options.
var (
	RegistrationInitialTimeout = NewOption("cluster.registration.initial-timeout", "100 ms",
		"Initial registration timeout; doubled after each failed attempt.")

	RegistrationMaxTimeout = NewOption("cluster.registration.max-timeout", "30 s",
		"Upper bound of the doubled registration timeout.")

	RegistrationErrorDelay = NewOption("cluster.registration.error-delay", "10 s",
		"Pause after a registration attempt failed with an error.")

	RegistrationRefusedDelay = NewOption("cluster.registration.refused-registration-delay", "30 s",
		"Pause after a registration attempt was refused.")
)

// REST endpoint options.
var (
	RestPort = NewOption("rest.port", "8080",
		"Port or address of the introspection HTTP endpoint.")

	RestShutdownGracePeriod = NewOption("rest.shutdown-grace-period", "10 s",
		"Time in-flight requests get to finish on shutdown.")

	RestReadHeaderTimeout = NewOption("rest.read-header-timeout", "5 s",
		"Timeout for reading request headers.")

	RestWriteTimeout = NewOption("rest.write-timeout", "15 s",
		"Timeout for writing a response.")

	RestIdleTimeout = NewOption("rest.idle-timeout", "60 s",
		"Keep-alive timeout of idle connections.")

	RestRequestLogging = NewOption("rest.request-logging", "true",
		"Whether every request is logged.")

	RestRateLimitRPS = NewOption("rest.rate-limit.rps", "25",
		"Requests per second allowed. 0 disables rate limiting.")

	RestRateLimitBurst = NewOption("rest.rate-limit.burst", "50",
		"Burst capacity of the rate limiter. 0 disables rate limiting.")
)
