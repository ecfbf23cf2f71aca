package keel

import (
	"errors"
	"fmt"
	"net"

	"github.com/keel-web/keel/bufpool"
	"github.com/keel-web/keel/config"
	"github.com/keel-web/keel/conn"
	"github.com/keel-web/keel/diag"
	"github.com/keel-web/keel/internal/address"
	"github.com/keel-web/keel/stat"
	"github.com/keel-web/keel/transport"
)

// App owns one listener and every connection accepted off it. Instances are
// fully independent, nothing is shared process-wide.
type App struct {
	addr  address.Address
	cfg   config.Config
	hooks hooks

	log   *diag.Logger
	stats *stat.Counters
	pool  *bufpool.Pool
	tcp   *transport.TCP
}

// New returns a new App instance.
func New(addr string) *App {
	appAddr, err := address.Parse(addr)
	if err != nil {
		panic(fmt.Errorf("keel: listen: bad addr: %v", err))
	}

	app := &App{
		addr:  appAddr,
		stats: new(stat.Counters),
	}

	return app.Tune(config.Default())
}

// Tune replaces default settings. Knobs are applied on the spot, so call it
// before Serve.
func (a *App) Tune(cfg config.Config) *App {
	a.cfg = config.Fill(cfg)
	a.log = diag.New(a.cfg.Log.Sink, a.cfg.Log.Debug)
	a.pool = bufpool.New(a.cfg.NET.ReadBufferSize)
	a.tcp = transport.NewTCP(a.log)

	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound and
// about to accept. The address is final by then, so Addr is safe inside.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once the listener is down and the last
// connection handler has finished.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Addr reports the actually bound address, nil before Serve bound one.
// Handy when the port was left for the kernel to pick.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Serve binds the listener and serves it until a shutdown is asked for or
// the listener breaks. A bind failure aborts the startup right away: an
// acceptor without its socket has nothing to do.
func (a *App) Serve(p conn.Parser) error {
	if p == nil {
		return errors.New("keel: serve: nil parser")
	}

	if err := a.tcp.Bind(a.addr.String()); err != nil {
		a.log.Errorf("keel: bind %s: %v", a.addr, err)
		return err
	}

	a.log.Infof("keel: listening on %s", a.addr)
	callIfNotNil(a.hooks.OnStart)

	err := a.tcp.Serve(a.cfg.NET, a.onConn(p))
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop kills the listener and every connection being served. Serve returns
// once the handlers have drained.
func (a *App) Stop() {
	a.tcp.Stop()
}

// GracefulStop closes the listener, leaving established connections to end
// their lives peacefully.
func (a *App) GracefulStop() {
	a.tcp.GracefulStop()
}

func (a *App) onConn(p conn.Parser) transport.OnConn {
	return func(client transport.Client) {
		a.stats.ConnsAccepted.Add(1)
		conn.New(client, p, a.pool, a.log, a.stats).Run()
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
