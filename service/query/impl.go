package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
)

const (
	queryMaxTime  = 20 * time.Second
	slowThreshold = 500 * time.Millisecond
)

var (
	met     = metrics.New("query")
	timeNow = time.Now
)

type impl struct {
	client     *mongoclient.Client
	checkIndex bool
}

// New initializes an impl
func New(client *mongoclient.Client, checkIndex bool) Mongo {
	return &impl{
		client:     client,
		checkIndex: checkIndex,
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(context, table, "insert", nil, "")()

	if _, err := im.coll(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		context.WithFields(log.Fields{"err": err, "table": table}).Error("InsertOne failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(context, table, "findone", query, "")()

	if err := im.checkQueryIndex(context, table, "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	res := im.coll(table).FindOne(context, query, options.FindOne().SetMaxTime(queryMaxTime))
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		context.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("FindOne failed")
		return err
	}
	return nil
}

func (im *impl) Count(context ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(context, table, "count", selector, "")()

	if err := im.checkQueryIndex(context, table, "count", bson.E{Key: "query", Value: selector}); err != nil {
		return 0, err
	}

	n, err := im.coll(table).CountDocuments(context, selector, options.Count().SetMaxTime(queryMaxTime))
	if err != nil {
		context.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("CountDocuments failed")
		return 0, err
	}
	return int(n), nil
}

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(context, table, "search", query, sort)()

	if err := im.checkQueryIndex(context, table, "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	opts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset)).SetLimit(int64(limit))
	if keys := sortKeys(sort); len(keys) > 0 {
		opts.SetSort(keys)
	}
	cursor, err := im.coll(table).Find(context, query, opts)
	if err != nil {
		context.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("Find failed")
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		context.WithFields(log.Fields{"err": err, "table": table}).Error("cursor.All failed")
		return err
	}
	return nil
}

func (im *impl) EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error {
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		models = append(models, mongo.IndexModel{
			Keys:    sortKeys(idx.Keys...),
			Options: options.Index().SetUnique(idx.Unique),
		})
	}
	if _, err := im.coll(table).Indexes().CreateMany(context, models); err != nil {
		context.WithFields(log.Fields{"err": err, "table": table}).Error("CreateMany failed")
		return err
	}
	return nil
}

func sortKeys(fields ...string) bson.D {
	res := bson.D{}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if f[0] == '-' {
			res = append(res, bson.E{Key: f[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: f, Value: 1})
		}
	}
	return res
}

func slowLog(context ctx.Ctx, table domain.Table, action string, query interface{}, sort string) func() {
	start := timeNow()
	return func() {
		elapsed := timeNow().Sub(start)
		if elapsed < slowThreshold {
			return
		}
		met.BumpSum("slowlog", 1, "table", string(table), "action", action)
		context.WithFields(log.Fields{
			"table":      table,
			"action":     action,
			"durationMs": elapsed.Milliseconds(),
			"query":      query,
			"sort":       sort,
		}).Warn("mongo slowlog")
	}
}

// checkQueryIndex rejects queries whose plan contains a collection scan.
func (im *impl) checkQueryIndex(context ctx.Ctx, table domain.Table, action string, query bson.E) error {
	if !im.checkIndex {
		return nil
	}
	res := im.client.Database(im.client.DbName).RunCommand(context, bson.D{
		{Key: "explain", Value: bson.D{{Key: action, Value: string(table)}, query}},
		{Key: "verbosity", Value: "queryPlanner"},
	})

	var m bson.M
	if err := res.Decode(&m); err != nil {
		context.WithField("err", err).Warn("explain decode failed")
		return nil
	}

	// plan layout differs between server versions, match on the stage name only
	if strings.Contains(fmt.Sprintf("%v", m), "COLLSCAN") {
		context.WithFields(log.Fields{"table": table, "query": query}).Warn("COLLSCAN")
		return ErrCollScan
	}
	return nil
}
