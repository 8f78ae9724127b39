package interfaces

// SchedulerService runs periodic background refresh jobs
type SchedulerService interface {
	Start() error
	Stop()
	IsRunning() bool
}
