package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/marketplace/base/log"
)

const (
	socketTimeout  = 60 * time.Second
	connectTimeout = 10 * time.Second
)

// Client wraps mongo.Client with the database it serves
type Client struct {
	DbName string
	*mongo.Client
}

// Options of a mongo connection
type Options struct {
	URI        string
	AuthDBName string
	DBName     string
	SSL        bool
	// PoolSizeMultiplier scales the pool with the cpu count, default 2
	PoolSizeMultiplier float64
}

// MustConnect returns a connected client or panics
func MustConnect(opts Options) *Client {
	cli, err := Connect(opts)
	if err != nil {
		log.Log().WithFields(log.Fields{"db": opts.DBName, "err": err}).Panic("fail to dial mongo")
	}
	return cli
}

// Connect dials mongo with majority write concern and checks the database is reachable
func Connect(opts Options) (*Client, error) {
	logger := log.Log().WithField("db", opts.DBName)
	cs, err := connstring.Parse(opts.URI)
	if err != nil {
		logger.WithField("err", err).Error("connstring.Parse failed")
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(opts.URI).SetSocketTimeout(socketTimeout).SetRetryWrites(true)
	clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	if cs.Username != "" && cs.AuthSource == "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           cs.AuthMechanism,
			AuthMechanismProperties: cs.AuthMechanismProperties,
			Username:                cs.Username,
			Password:                cs.Password,
			PasswordSet:             cs.PasswordSet,
			AuthSource:              opts.AuthDBName,
		})
	}
	if opts.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}

	multiplier := opts.PoolSizeMultiplier
	if multiplier <= 0 {
		multiplier = 2
	}
	// each host keeps its own pool
	poolSize := int(float64(runtime.NumCPU()) * multiplier)
	poolSize = (poolSize + len(cs.Hosts) - 1) / len(cs.Hosts)
	clientOpts.SetMinPoolSize(uint64(poolSize / 4)).SetMaxPoolSize(uint64(poolSize))

	c, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(c, clientOpts)
	if err != nil {
		logger.WithFields(log.Fields{"hosts": cs.Hosts, "err": err}).Error("mongo.Connect failed")
		return nil, err
	}
	if _, err := client.Database(opts.DBName).ListCollectionNames(c, bson.D{}); err != nil {
		logger.WithFields(log.Fields{"hosts": cs.Hosts, "err": err}).Error("ListCollectionNames failed")
		return nil, err
	}

	logger.WithFields(log.Fields{"hosts": cs.Hosts, "poolSize": poolSize}).Info("mongo connected")
	return &Client{Client: client, DbName: opts.DBName}, nil
}
