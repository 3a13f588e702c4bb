package main

import (
	"errors"
	"net/http"

	"github.com/ttpr0/go-streetwalker/session"
)

//**********************************************************
// walk handlers
//**********************************************************

func MapWalkRoutes(app *http.ServeMux, manager *WalkManager, metrics *Metrics) {
	MapGet(app, "/v0/walk/status", func(r *http.Request, req none) Result {
		return HandleStatusRequest(r, manager)
	})
	MapPost(app, "/v0/walk/command", func(r *http.Request, req CommandRequest) Result {
		return HandleCommandRequest(r, manager, req)
	})
	MapPost(app, "/v0/walk/speed", func(r *http.Request, req SpeedRequest) Result {
		return HandleSpeedRequest(r, manager, req)
	})
	MapPost(app, "/v0/walk/ticker", func(r *http.Request, req TickerRequest) Result {
		return HandleTickerRequest(r, manager, req)
	})
	MapGet(app, "/v0/walk/choices", func(r *http.Request, req none) Result {
		return HandleChoicesRequest(r, manager)
	})
	MapGet(app, "/v0/graph/info", func(r *http.Request, req none) Result {
		return HandleGraphInfoRequest(manager)
	})
	app.HandleFunc("/v0/walk/stream", HandleStreamRequest(manager, metrics))
	app.Handle("/metrics", metrics.Handler())
}

func HandleStatusRequest(r *http.Request, manager *WalkManager) Result {
	sess := manager.GetSession()
	if !sess.HasValue() {
		return _NotReady(manager)
	}
	return _StatusResult(r, sess.Value)
}

func HandleCommandRequest(r *http.Request, manager *WalkManager, req CommandRequest) Result {
	sess := manager.GetSession()
	if !sess.HasValue() {
		return _NotReady(manager)
	}
	cmd, err := session.CommandFromString(req.Command)
	if err != nil {
		return BadRequest("unknown command " + req.Command)
	}
	if _, err := sess.Value.Do(r.Context(), cmd); err != nil {
		return _SessionError(err)
	}
	return _StatusResult(r, sess.Value)
}

func HandleSpeedRequest(r *http.Request, manager *WalkManager, req SpeedRequest) Result {
	sess := manager.GetSession()
	if !sess.HasValue() {
		return _NotReady(manager)
	}
	if req.Delta == 0 {
		return BadRequest("delta must not be zero")
	}
	if _, err := sess.Value.AdjustSpeed(r.Context(), req.Delta); err != nil {
		return _SessionError(err)
	}
	return _StatusResult(r, sess.Value)
}

func HandleTickerRequest(r *http.Request, manager *WalkManager, req TickerRequest) Result {
	sess := manager.GetSession()
	if !sess.HasValue() {
		return _NotReady(manager)
	}
	cmd := session.TICKER_PAUSE
	if req.Running {
		cmd = session.TICKER_START
	}
	if _, err := sess.Value.Do(r.Context(), cmd); err != nil {
		return _SessionError(err)
	}
	return _StatusResult(r, sess.Value)
}

func HandleChoicesRequest(r *http.Request, manager *WalkManager) Result {
	sess := manager.GetSession()
	g := manager.GetGraph()
	if !sess.HasValue() || !g.HasValue() {
		return _NotReady(manager)
	}
	status, choices, err := sess.Value.Snapshot(r.Context())
	if err != nil {
		return _SessionError(err)
	}
	return OK(NewChoicesResponse(g.Value, choices, status.ChoiceIndex))
}

func HandleGraphInfoRequest(manager *WalkManager) Result {
	g := manager.GetGraph()
	if !g.HasValue() {
		return _NotReady(manager)
	}
	return OK(NewGraphInfoResponse(g.Value))
}

func _StatusResult(r *http.Request, sess *session.Session) Result {
	status, err := sess.Status(r.Context())
	if err != nil {
		return _SessionError(err)
	}
	ticking, err := sess.IsTicking(r.Context())
	if err != nil {
		return _SessionError(err)
	}
	return OK(NewStatusResponse(status, ticking))
}

func _NotReady(manager *WalkManager) Result {
	if err := manager.LoadError(); err != nil {
		return Unavailable(ErrNotReady.Error() + ": " + err.Error())
	}
	return Unavailable(ErrNotReady.Error())
}

func _SessionError(err error) Result {
	if errors.Is(err, session.ErrClosed) {
		return Unavailable(err.Error())
	}
	return InternalError(err.Error())
}
