package mocks

//go:generate mockgen -destination=./mock_tick_store.go -package=mocks github.com/rxtech-lab/argo-streamer/internal/persistence TickStore
//go:generate mockgen -destination=./mock_alert_store.go -package=mocks github.com/rxtech-lab/argo-streamer/internal/persistence AlertStore
//go:generate mockgen -destination=./mock_broadcaster.go -package=mocks github.com/rxtech-lab/argo-streamer/internal/broadcast Broadcaster
//go:generate mockgen -destination=./mock_predictor.go -package=mocks github.com/rxtech-lab/argo-streamer/internal/prediction Predictor
