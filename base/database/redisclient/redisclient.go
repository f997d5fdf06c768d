package redisclient

import (
	"math/rand"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketplace/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
	idleTimeout  = 240 * time.Second
	dialRetries  = 3
)

// Options of a redis pool
type Options struct {
	URI      string
	Password string
	// PoolMultiplier scales the pool with the cpu count, zero keeps the defaults
	PoolMultiplier float64
	// Retry redials with jitter when the first ping fails
	Retry bool
}

// MustConnect returns a pinged pool or panics
func MustConnect(opts Options) *redis.Pool {
	p, err := Connect(opts)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": opts.URI, "err": err}).Panic("fail to dial redis")
	}
	return p
}

// Connect builds a pool for one redis uri and pings it
func Connect(opts Options) (*redis.Pool, error) {
	maxIdle, maxActive := 200, 1024
	if opts.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		maxIdle = int(cpu * opts.PoolMultiplier / 4)
		maxActive = int(cpu * opts.PoolMultiplier)
	}

	dialOpts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if opts.Password != "" {
		dialOpts = append(dialOpts, redis.DialPassword(opts.Password))
	}
	p := &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: idleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", opts.URI, dialOpts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	var err error
	for i := 0; i <= dialRetries; i++ {
		if i > 0 {
			if !opts.Retry {
				break
			}
			time.Sleep(time.Second + time.Duration(rand.Intn(1000))*time.Millisecond)
		}
		if err = ping(p); err == nil {
			break
		}
		log.Log().WithFields(log.Fields{"redisURI": opts.URI, "err": err, "attempt": i}).Warn("redis ping failed")
	}
	if err != nil {
		return nil, err
	}

	log.Log().WithField("redisURI", opts.URI).Info("redis connected")
	return p, nil
}

func ping(p *redis.Pool) error {
	c, err := p.Dial()
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("PING")
	return err
}
