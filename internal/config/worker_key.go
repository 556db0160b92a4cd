package config

type WorkerKeyStruct struct {
	PersistResultsQueue string
	NotifyFanoutQueue   string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResultsQueue: "persist_results_queue",
	NotifyFanoutQueue:   "notify_fanout_queue",
}
