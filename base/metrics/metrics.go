/*
Package metrics wraps datadog-go for metric recording.
Naming convention of metric keys:
  - Internal process time: *.time
  - Error: *.err
  - Warning: *.warn
*/
package metrics

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/marketplace/base/log"
)

// Ender is returned by BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client prefixing every key with the package name
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		baseTags: []string{
			"host:", // drops the agent host tag
			"env:" + viper.GetString("env_name"),
			"app:" + viper.GetString("app_name"),
		},
	}
}

// Metrics sends the bumps to the shared statsd clients.
type Metrics struct {
	pkgName  string
	baseTags []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

func (mt *Metrics) tags(tags []string) []string {
	if len(tags)%2 != 0 {
		log.Log().WithFields(log.Fields{"pkg": mt.pkgName, "tags": tags}).Warn("odd tag length")
		tags = tags[:len(tags)-1]
	}
	res := make([]string, 0, len(mt.baseTags)+len(tags)/2)
	res = append(res, mt.baseTags...)
	for i := 0; i < len(tags); i += 2 {
		res = append(res, tags[i]+":"+tags[i+1])
	}
	return res
}

// recoverBump keeps a broken client from taking down the caller.
func (mt *Metrics) recoverBump(typ, key string, tags []string) {
	if err := recover(); err != nil {
		log.Log().WithFields(log.Fields{
			"err":  err,
			"type": typ,
			"key":  mt.key(key) + "#" + strings.Join(tags, "#"),
		}).Error("bump panic")
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump("avg", key, tags)
	if err := client().Gauge(mt.key(key), val, mt.tags(tags), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val}).Error("BumpAvg failed")
	}
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump("sum", key, tags)
	if err := client().Count(mt.key(key), int64(val), mt.tags(tags), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val}).Error("BumpSum failed")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump("histogram", key, tags)
	if err := client().Histogram(mt.key(key), val, mt.tags(tags), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val}).Error("BumpHistogram failed")
	}
}

// BumpTime starts a timer and reports it on End:
//
//	defer met.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		mt:    mt,
		start: time.Now(),
		key:   key,
		tags:  tags,
	}
}

type timeTracker struct {
	mt    *Metrics
	start time.Time
	key   string
	tags  []string
}

func (t *timeTracker) End() {
	defer t.mt.recoverBump("time", t.key, t.tags)
	ms := float64(time.Since(t.start)) / float64(time.Millisecond)
	if err := client().TimeInMilliseconds(t.mt.key(t.key), ms, t.mt.tags(t.tags), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": t.key, "val": ms}).Error("BumpTime failed")
	}
}
