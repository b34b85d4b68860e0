package config

type WorkerKeyStruct struct {
	PersistActionLogQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistActionLogQueue: "persist_action_log_queue",
}
