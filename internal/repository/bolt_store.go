package repository

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	interactionPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	userPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	bucketUsers        = []byte("users")
	bucketUsernames    = []byte("usernames")
	bucketInteractions = []byte("interactions")
)

// BoltStore is an embedded single-file store for users and interactions.
// Interactions live in one nested bucket per user, keyed by a big-endian
// sequence so that cursor order is insertion order.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the store at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketUsers, bucketUsernames, bucketInteractions} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying file lock
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Path returns the location of the store file
func (s *BoltStore) Path() string {
	return s.db.Path()
}

type boltUserRepository struct {
	store  *BoltStore
	logger *logger.Logger
}

// NewBoltUserRepository creates a user repository backed by store
func NewBoltUserRepository(store *BoltStore, log *logger.Logger) userPkg.Repository {
	return &boltUserRepository{
		store:  store,
		logger: log.WithComponent("bolt-user-repository"),
	}
}

func (r *boltUserRepository) Create(user *userPkg.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		names := tx.Bucket(bucketUsernames)
		if names.Get([]byte(user.Username)) != nil {
			return fmt.Errorf("username %q already exists", user.Username)
		}

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUsers).Put(user.ID[:], data); err != nil {
			return err
		}
		return names.Put([]byte(user.Username), user.ID[:])
	})
	if err != nil {
		r.logger.Error("Failed to create user " + user.ID.String() + " with username " + user.Username + ": " + err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User created successfully: " + user.ID.String() + " with username " + user.Username)
	return nil
}

func (r *boltUserRepository) FindByUsername(username string) (*userPkg.User, error) {
	var user *userPkg.User
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsernames).Get([]byte(username))
		if id == nil {
			return userPkg.ErrUserNotFound
		}
		var err error
		user, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *boltUserRepository) FindByID(id uuid.UUID) (*userPkg.User, error) {
	var user *userPkg.User
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, id[:])
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func getUser(tx *bbolt.Tx, id []byte) (*userPkg.User, error) {
	data := tx.Bucket(bucketUsers).Get(id)
	if data == nil {
		return nil, userPkg.ErrUserNotFound
	}
	var user userPkg.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

type boltInteractionRepository struct {
	store  *BoltStore
	logger *logger.Logger
}

// NewBoltInteractionRepository creates an interaction repository backed by store
func NewBoltInteractionRepository(store *BoltStore, log *logger.Logger) interactionPkg.Repository {
	return &boltInteractionRepository{
		store:  store,
		logger: log.WithComponent("bolt-interaction-repository"),
	}
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func (r *boltInteractionRepository) Create(interaction *interactionPkg.Interaction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}

	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.Bucket(bucketInteractions).CreateBucketIfNotExists(interaction.UserID[:])
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(interaction)
		if err != nil {
			return err
		}
		return bucket.Put(sequenceKey(seq), data)
	})
	if err != nil {
		r.logger.Error("Failed to create interaction for user " + interaction.UserID.String() + " item " + interaction.ItemID + ": " + err.Error())
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}

func (r *boltInteractionRepository) FindItemIDsByUser(userID uuid.UUID, action interactionPkg.Action, limit int) ([]string, error) {
	itemIDs := []string{}
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketInteractions).Bucket(userID[:])
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var interaction interactionPkg.Interaction
			if err := json.Unmarshal(v, &interaction); err != nil {
				return fmt.Errorf("decode interaction: %w", err)
			}
			if action != "" && interaction.Action != action {
				continue
			}
			itemIDs = append(itemIDs, interaction.ItemID)
			if limit > 0 && len(itemIDs) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to list interactions for user " + userID.String() + ": " + err.Error())
		return nil, fmt.Errorf("database error: %w", err)
	}
	return itemIDs, nil
}

func (r *boltInteractionRepository) DeleteViewedBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketInteractions)

		var users [][]byte
		err := root.ForEach(func(k, v []byte) error {
			// nested user buckets have nil values
			if v == nil {
				users = append(users, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, userKey := range users {
			bucket := root.Bucket(userKey)

			var stale [][]byte
			err := bucket.ForEach(func(k, v []byte) error {
				var interaction interactionPkg.Interaction
				if err := json.Unmarshal(v, &interaction); err != nil {
					return fmt.Errorf("decode interaction: %w", err)
				}
				if interaction.Action == interactionPkg.ActionViewed && interaction.CreatedAt.Before(cutoff) {
					stale = append(stale, append([]byte(nil), k...))
				}
				return nil
			})
			if err != nil {
				return err
			}

			// bbolt forbids mutating a bucket while iterating it
			for _, k := range stale {
				if err := bucket.Delete(k); err != nil {
					return err
				}
			}
			deleted += int64(len(stale))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete viewed interactions before " + cutoff.Format(time.RFC3339) + ": " + err.Error())
		return 0, fmt.Errorf("failed to delete interactions: %w", err)
	}

	r.logger.Debug("Deleted " + strconv.FormatInt(deleted, 10) + " viewed interactions")
	return deleted, nil
}
