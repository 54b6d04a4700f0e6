package e2e

import (
	"board-lab/domain"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/storage"
	"board-lab/transport/lan"
	"context"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// Device is one running session over the LAN transport, bound to the loopback interface.
type Device struct {
	Session   *runtime.Orchestrator
	Transport *lan.Transport
	stop      func()
}

type BaseBoardSuite struct {
	suite.Suite
	Config  Config
	devices []*Device
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseBoardSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseBoardSuite) TearDownTest() {
	for _, d := range s.devices {
		d.stop()
	}
	s.devices = nil
}

// Step prints a header so scenario logs read as a sequence of steps.
func (s *BaseBoardSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Device starts a session named nickname and waits until its websocket endpoint listens.
func (s *BaseBoardSuite) Device(nickname string, icon domain.ProfileIcon) *Device {
	log := logs.GetLoggerFromString(s.Config.LogLevel)
	db, err := storage.OpenInMemory()
	s.Require().NoError(err)

	me := domain.NewProfile(nickname, icon)
	files := storage.NewFileStore(db)
	transport := lan.New(lan.Config{
		ID:             me.ID,
		Name:           nickname,
		ListenAddr:     "127.0.0.1:0",
		AdvertiseHost:  "127.0.0.1",
		BeaconAddr:     "127.0.0.1",
		BeaconPort:     s.Config.BeaconPort,
		BeaconInterval: 50 * time.Millisecond,
		PeerTTL:        time.Second,
		SendQueue:      32,
		BufferSize:     128,
		AnswerTimeout:  s.Config.Timeout,
	}, files, log)

	session, err := runtime.NewOrchestrator(log, me, transport, files, repositories.NewPhotoRepository(db, log), runtime.Options{
		BufferSize:           128,
		SinkTimeout:          200 * time.Millisecond,
		SendTimeout:          time.Second,
		RestartInterval:      50 * time.Millisecond,
		MetricInterval:       time.Second,
		LowCapacityThreshold: 10,
		EnableModeration:     true,
		CharReplacement:      '*',
	})
	s.Require().NoError(err)
	session.Supervise(transport)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Start(ctx)
	}()

	waitCtx, cancelWait := context.WithTimeout(ctx, s.Config.Timeout)
	defer cancelWait()
	_, err = transport.Addr(waitCtx)
	s.Require().NoError(err)

	d := &Device{Session: session, Transport: transport, stop: func() {
		session.Stop()
		cancel()
		<-done
		_ = db.Close()
	}}
	s.devices = append(s.devices, d)
	return d
}

// Eventually retries cond until the scenario timeout.
func (s *BaseBoardSuite) Eventually(cond func() bool, msg string) {
	s.Require().Eventually(cond, s.Config.Timeout, 20*time.Millisecond, msg)
}
