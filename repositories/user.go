//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IAccountRepository interface {
	GetAccount(username string) (domain.Account, bool, error)
	CreateAccount(username, passwordHash string) error
}

// AccountRepository persists credential records in BadgerDB under "user:{name}".
type AccountRepository struct {
	db *badger.DB
}

func NewAccountRepository(db *badger.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetAccount returns the account for username. The boolean is the explicit
// found/not-found outcome: a missing account is a normal result, while a
// record that cannot be decoded is a fault.
func (r *AccountRepository) GetAccount(username string) (domain.Account, bool, error) {
	var account domain.Account
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &account); err != nil {
				return fmt.Errorf("%w: corrupt account record %q: %v", errors.ErrServiceFault, username, err)
			}
			return nil
		})
	})
	switch {
	case err == nil:
		return account, true, nil
	case stderrors.Is(err, badger.ErrKeyNotFound):
		return domain.Account{}, false, nil
	case stderrors.Is(err, errors.ErrServiceFault):
		return domain.Account{}, false, err
	default:
		return domain.Account{}, false, fmt.Errorf("%w: account lookup: %v", errors.ErrStorageFault, err)
	}
}

// CreateAccount stores a new credential record. The hash is produced by the
// caller; plain passwords never reach this layer.
func (r *AccountRepository) CreateAccount(username, passwordHash string) error {
	account := domain.Account{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("%w: marshal account: %v", errors.ErrStorageFault, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accountKey(username), data)
	})
	if err != nil {
		return fmt.Errorf("%w: store account: %v", errors.ErrStorageFault, err)
	}
	return nil
}

func accountKey(username string) []byte {
	return []byte("user:" + username)
}
