package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

type notificationDocument struct {
	ID          string    `bson:"_id"`
	RecipientID string    `bson:"recipientId"`
	Event       string    `bson:"event"`
	Title       string    `bson:"title"`
	Message     string    `bson:"message"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// MongoInbox stores notifications in the notifications collection.
type MongoInbox struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongoInbox opens the client and ensures the listing index exists.
func ConnectMongoInbox(ctx context.Context, uri, database string) (*MongoInbox, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(notificationsCollection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create notifications index: %w", err)
	}
	return &MongoInbox{client: client, collection: collection}, nil
}

func (i *MongoInbox) Save(ctx context.Context, notifications ...ports.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]any, 0, len(notifications))
	for _, n := range notifications {
		docs = append(docs, notificationDocument{
			ID:          n.ID,
			RecipientID: n.RecipientID.String(),
			Event:       n.Event,
			Title:       n.Title,
			Message:     n.Message,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	_, err := i.collection.InsertMany(ctx, docs)
	return err
}

func (i *MongoInbox) List(ctx context.Context, recipientID kernel.UUID, limit int) ([]ports.Notification, error) {
	cursor, err := i.collection.Find(ctx,
		bson.M{"recipientId": recipientID.String()},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []notificationDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]ports.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, ports.Notification{
			ID:          d.ID,
			RecipientID: recipientID,
			Event:       d.Event,
			Title:       d.Title,
			Message:     d.Message,
			Read:        d.Read,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}

func (i *MongoInbox) Name() string { return "mongo_inbox" }

func (i *MongoInbox) Deliver(ctx context.Context, _ kernel.DomainEvent, notifications []ports.Notification) error {
	return i.Save(ctx, notifications...)
}

func (i *MongoInbox) Close(ctx context.Context) error {
	return i.client.Disconnect(ctx)
}

// MemoryInbox keeps notifications in process. Used when no MongoDB is
// configured and in tests.
type MemoryInbox struct {
	mu    sync.RWMutex
	items map[string][]ports.Notification
}

func NewMemoryInbox() *MemoryInbox {
	return &MemoryInbox{items: make(map[string][]ports.Notification)}
}

func (i *MemoryInbox) Save(_ context.Context, notifications ...ports.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, n := range notifications {
		key := n.RecipientID.String()
		i.items[key] = append(i.items[key], n)
	}
	return nil
}

func (i *MemoryInbox) List(_ context.Context, recipientID kernel.UUID, limit int) ([]ports.Notification, error) {
	i.mu.RLock()
	items := append([]ports.Notification(nil), i.items[recipientID.String()]...)
	i.mu.RUnlock()

	sort.SliceStable(items, func(a, b int) bool { return items[a].CreatedAt.After(items[b].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []ports.Notification{}
	}
	return items, nil
}

func (i *MemoryInbox) Name() string { return "memory_inbox" }

func (i *MemoryInbox) Deliver(ctx context.Context, _ kernel.DomainEvent, notifications []ports.Notification) error {
	return i.Save(ctx, notifications...)
}
