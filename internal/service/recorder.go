package service

// Recorder 业务指标；metrics.Collector 实现了它
type Recorder interface {
	DiaryCreated()
	CommentCreated()
	PolicyDenied(record string, write bool)
}

type NopRecorder struct{}

func (NopRecorder) DiaryCreated()             {}
func (NopRecorder) CommentCreated()           {}
func (NopRecorder) PolicyDenied(string, bool) {}
