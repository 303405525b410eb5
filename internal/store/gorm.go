package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"potato-chat/internal/channel"
	"potato-chat/internal/user"
)

// GormStore implements Store over a gorm DB handle. The same implementation
// serves both the local sqlite file and a hosted postgres database; the
// driver is chosen at startup, never in here.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation catches driver-level unique constraint errors that gorm
// does not normalize (sqlite and postgres word them differently).
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

// --- users ---

func (s *GormStore) CreateUser(u *user.User) error {
	return translate(s.db.Create(u).Error)
}

func (s *GormStore) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) ListUsers() ([]user.User, error) {
	var users []user.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *GormStore) RenameUser(oldName, newName string) error {
	return translate(s.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.Where("username = ?", oldName).First(&u).Error; err != nil {
			return err
		}
		var taken int64
		if err := tx.Model(&user.User{}).Where("username = ?", newName).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrDuplicate
		}
		if err := tx.Model(&user.User{}).Where("username = ?", oldName).
			Update("username", newName).Error; err != nil {
			return err
		}
		// Message authorship is a denormalized copy, rewritten in bulk here.
		return tx.Model(&channel.Message{}).Where("author = ?", oldName).
			Update("author", newName).Error
	}))
}

func (s *GormStore) RemoveUser(username string) error {
	return translate(s.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.Where("username = ?", username).First(&u).Error; err != nil {
			return err
		}
		if err := tx.Where("author = ?", username).Delete(&channel.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	}))
}

// --- channels ---

func (s *GormStore) ListChannels() ([]channel.Channel, error) {
	var channels []channel.Channel
	if err := s.db.Order("id asc").Find(&channels).Error; err != nil {
		return nil, translate(err)
	}
	return channels, nil
}

func (s *GormStore) GetChannel(id uint) (*channel.Channel, error) {
	var ch channel.Channel
	if err := s.db.First(&ch, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (s *GormStore) CreateChannel(name string, locked bool) (*channel.Channel, error) {
	ch := channel.Channel{Name: name, Locked: locked}
	if err := s.db.Create(&ch).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (s *GormStore) RenameChannel(id uint, newName string) (*channel.Channel, error) {
	var ch channel.Channel
	if err := s.db.First(&ch, id).Error; err != nil {
		return nil, translate(err)
	}
	ch.Name = newName
	if err := s.db.Save(&ch).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (s *GormStore) SetChannelLocked(id uint, locked bool) (*channel.Channel, error) {
	var ch channel.Channel
	if err := s.db.First(&ch, id).Error; err != nil {
		return nil, translate(err)
	}
	ch.Locked = locked
	if err := s.db.Save(&ch).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (s *GormStore) DeleteChannel(id uint) error {
	return translate(s.db.Transaction(func(tx *gorm.DB) error {
		var ch channel.Channel
		if err := tx.First(&ch, id).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", id).Delete(&channel.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ch).Error
	}))
}

// --- messages ---

func (s *GormStore) AppendMessage(m *channel.Message) error {
	return translate(s.db.Create(m).Error)
}

func (s *GormStore) GetMessage(id uint) (*channel.Message, error) {
	var m channel.Message
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *GormStore) ListMessages(channelID uint) ([]channel.Message, error) {
	var msgs []channel.Message
	if err := s.db.Where("channel_id = ?", channelID).
		Order("created_at asc").Find(&msgs).Error; err != nil {
		return nil, translate(err)
	}
	channel.SortAscending(msgs)
	return msgs, nil
}

func (s *GormStore) DeleteMessage(id uint) error {
	res := s.db.Delete(&channel.Message{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
