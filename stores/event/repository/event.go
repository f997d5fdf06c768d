package repository

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

// eventDoc keeps payload amounts as decimal strings so that big values survive the round trip.
type eventDoc struct {
	Id      string         `bson:"id"`
	Name    event.Name     `bson:"name"`
	Source  domain.Address `bson:"source"`
	Time    time.Time      `bson:"time"`
	Payload bson.M         `bson:"payload"`
}

type impl struct {
	query query.Mongo
}

func New(query query.Mongo) event.Repo {
	return &impl{query}
}

// EnsureIndexes creates the indexes FindAll and Insert rely on.
func EnsureIndexes(c ctx.Ctx, mgo query.Mongo) error {
	return mgo.EnsureIndexes(c, domain.TableEvents,
		query.Index{Keys: []string{"id"}, Unique: true},
		query.Index{Keys: []string{"time"}},
		query.Index{Keys: []string{"name", "time"}},
		query.Index{Keys: []string{"source", "time"}},
	)
}

func (im *impl) Insert(c ctx.Ctx, e *event.Event) error {
	payload, err := toDocument(e.Payload)
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"id":   e.Id,
			"name": e.Name,
		}).Error("toDocument failed")
		return err
	}

	doc := &eventDoc{
		Id:      e.Id,
		Name:    e.Name,
		Source:  e.Source.ToLower(),
		Time:    e.Time,
		Payload: payload,
	}
	if err := im.query.Insert(c, domain.TableEvents, doc); err == query.ErrDuplicateKey {
		c.WithField("id", e.Id).Warn("event already stored")
		return nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"event": e,
		}).Error("failed to query.Insert")
		return err
	}
	return nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...event.FindAllOptionsFunc) ([]*event.Event, error) {
	options, err := event.GetFindAllOptions(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to event.GetFindAllOptions")
		return nil, err
	}

	qry := bson.M{}
	if options.Name != nil {
		qry["name"] = *options.Name
	}
	if options.Source != nil {
		qry["source"] = options.Source.ToLower()
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	docs := []*eventDoc{}
	if err := im.query.Search(c, domain.TableEvents, offset, limit, "time", qry, &docs); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to query.Search")
		return nil, err
	}

	res := make([]*event.Event, 0, len(docs))
	for _, d := range docs {
		res = append(res, &event.Event{
			Id:      d.Id,
			Name:    d.Name,
			Source:  d.Source,
			Time:    d.Time,
			Payload: map[string]interface{}(d.Payload),
		})
	}
	return res, nil
}

func toDocument(payload interface{}) (bson.M, error) {
	if payload == nil {
		return bson.M{}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	res := bson.M{}
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return numbersToStrings(res).(bson.M), nil
}

func numbersToStrings(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		for k, e := range val {
			val[k] = numbersToStrings(e)
		}
		return val
	case map[string]interface{}:
		return numbersToStrings(bson.M(val))
	case []interface{}:
		for i, e := range val {
			val[i] = numbersToStrings(e)
		}
		return val
	case json.Number:
		return val.String()
	default:
		return v
	}
}
