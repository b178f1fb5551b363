package task

import (
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"
	"github.com/qiniu/x/xlog"
)

// Pinger 由 *db.ApplicantService 实现。
type Pinger interface {
	Ping(xl *xlog.Logger) error
}

// KeepaliveTask 定时检查mongo连接，失败时由Pinger刷新会话。
type KeepaliveTask struct {
	pinger Pinger
	xl     *xlog.Logger
	fails  int
}

func NewKeepaliveTask(pinger Pinger) *KeepaliveTask {
	return &KeepaliveTask{
		pinger: pinger,
		xl:     xlog.New("keepalive task"),
	}
}

func (t *KeepaliveTask) Start() {
	if err := t.pinger.Ping(t.xl); err != nil {
		t.fails++
		t.xl.Errorf("mongo keepalive failed %d times in a row, error %v", t.fails, err)
		return
	}
	if t.fails > 0 {
		t.xl.Infof("mongo keepalive recovered after %d failures", t.fails)
	}
	t.fails = 0
}

// Schedule registers t on the default gocron scheduler, every seconds.
// A non positive interval disables it.
func (t *KeepaliveTask) Schedule(seconds int) bool {
	if seconds <= 0 {
		log.Infof("mongo keepalive disabled")
		return false
	}
	if err := gocron.Every(uint64(seconds)).Seconds().Do(t.Start); err != nil {
		log.Errorf("failed to schedule mongo keepalive, error %v", err)
		return false
	}
	log.Infof("mongo keepalive every %v", time.Duration(seconds)*time.Second)
	return true
}
