package mocks

//go:generate mockgen -destination=./mock_recorder.go -package=mocks github.com/rxtech-lab/argo-policy/internal/replay Recorder
//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rxtech-lab/argo-policy/internal/replay Source
