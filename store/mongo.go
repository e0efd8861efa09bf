package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"peakgear/models"
)

// MongoStorage implements Storage on top of MongoDB
type MongoStorage struct {
	users    *mongo.Collection
	products *mongo.Collection
	bookings *mongo.Collection
	waivers  *mongo.Collection
	sessions *mongo.Collection
}

// NewMongoStorage wires the collections of the given database
func NewMongoStorage(client *mongo.Client, dbName string) *MongoStorage {
	db := client.Database(dbName)
	return &MongoStorage{
		users:    db.Collection("users"),
		products: db.Collection("products"),
		bookings: db.Collection("bookings"),
		waivers:  db.Collection("waivers"),
		sessions: db.Collection("sessions"),
	}
}

// EnsureIndexes creates the indexes the queries below rely on. The unique
// index on waivers.user_id backs the one-waiver-per-user upsert.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.waivers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "start_date", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "available", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// ---- Users ----

func (s *MongoStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoStorage) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := s.users.InsertOne(ctx, user)
	return err
}

func (s *MongoStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"password": passwordHash, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStorage) SetPasswordResetToken(ctx context.Context, email, tokenHash string, expiry time.Time) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{
			"reset_token":        tokenHash,
			"reset_token_expiry": expiry,
			"updated_at":         time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStorage) GetUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{
		"reset_token":        tokenHash,
		"reset_token_expiry": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoStorage) ClearPasswordResetToken(ctx context.Context, userID string) error {
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$unset": bson.M{"reset_token": "", "reset_token_expiry": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// ---- Products ----

func (s *MongoStorage) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.products.Find(ctx, bson.M{"available": bson.M{"$ne": false}}, opts)
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

func (s *MongoStorage) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

func (s *MongoStorage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

func (s *MongoStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := s.products.InsertOne(ctx, product)
	return err
}

func (s *MongoStorage) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteProduct flips available to false; the record stays so
// historical bookings keep a valid product reference
func (s *MongoStorage) SoftDeleteProduct(ctx context.Context, id string) error {
	res, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"available": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Bookings ----

func (s *MongoStorage) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	_, err := s.bookings.InsertOne(ctx, booking)
	return err
}

func (s *MongoStorage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		return nil, mapErr(err)
	}
	return &booking, nil
}

func (s *MongoStorage) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.bookings.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

func (s *MongoStorage) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.bookings.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

func (s *MongoStorage) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	res, err := s.bookings.ReplaceOne(ctx, bson.M{"_id": booking.ID}, booking)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBookingsInRange matches inclusive calendar-date overlap:
// existing.start <= query.end AND existing.end >= query.start.
// YYYY-MM-DD strings compare correctly lexicographically.
func (s *MongoStorage) FindBookingsInRange(ctx context.Context, productID, startDate, endDate string) ([]models.Booking, error) {
	filter := bson.M{
		"product_id": productID,
		"status":     bson.M{"$ne": models.StatusCancelled},
		"start_date": bson.M{"$lte": endDate},
		"end_date":   bson.M{"$gte": startDate},
	}
	cursor, err := s.bookings.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// ---- Waivers ----

// UpsertWaiver records the waiver (at most one per user) and flips the
// user's denormalized waiver_signed flag in the same call
func (s *MongoStorage) UpsertWaiver(ctx context.Context, waiver *models.Waiver) (*models.Waiver, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.Waiver
	err := s.waivers.FindOneAndUpdate(ctx,
		bson.M{"user_id": waiver.UserID},
		bson.M{
			"$set": bson.M{
				"ip_address":     waiver.IPAddress,
				"waiver_content": waiver.WaiverContent,
				"signed_at":      waiver.SignedAt,
			},
			"$setOnInsert": bson.M{"_id": waiver.ID},
		},
		opts,
	).Decode(&saved)
	if err != nil {
		return nil, err
	}

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": waiver.UserID}, bson.M{
		"$set": bson.M{"waiver_signed": true, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *MongoStorage) GetWaiverByUser(ctx context.Context, userID string) (*models.Waiver, error) {
	var waiver models.Waiver
	err := s.waivers.FindOne(ctx, bson.M{"user_id": userID}).Decode(&waiver)
	if err != nil {
		return nil, mapErr(err)
	}
	return &waiver, nil
}

func (s *MongoStorage) HasSignedWaiver(ctx context.Context, userID string) (bool, error) {
	count, err := s.waivers.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---- Sessions ----

func (s *MongoStorage) CreateSession(ctx context.Context, session *models.Session) error {
	session.CreatedAt = time.Now().UTC()
	_, err := s.sessions.InsertOne(ctx, session)
	return err
}

// GetSession treats an expired session as missing even before the TTL
// monitor removes the document
func (s *MongoStorage) GetSession(ctx context.Context, sid string) (*models.Session, error) {
	var session models.Session
	err := s.sessions.FindOne(ctx, bson.M{
		"_id":        sid,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&session)
	if err != nil {
		return nil, mapErr(err)
	}
	return &session, nil
}

func (s *MongoStorage) DeleteSession(ctx context.Context, sid string) error {
	_, err := s.sessions.DeleteOne(ctx, bson.M{"_id": sid})
	return err
}

func (s *MongoStorage) DeleteSessionsByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.sessions.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ---- helpers ----

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	defer cursor.Close(ctx)
	var products []models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]models.Booking, error) {
	defer cursor.Close(ctx)
	var bookings []models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, cursor.Err()
}
