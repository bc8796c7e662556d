package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/repos"
	types "github.com/JithuMorrison/Lingzee/internal/domain"
	"github.com/JithuMorrison/Lingzee/internal/platform/dbctx"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
)

type BookmarkService interface {
	List(dbc dbctx.Context) ([]*types.Bookmark, error)
	IsBookmarked(dbc dbctx.Context, lessonID uuid.UUID) (bool, error)
	Add(dbc dbctx.Context, lessonID uuid.UUID) (*types.Bookmark, error)
	Remove(dbc dbctx.Context, lessonID uuid.UUID) error
}

type bookmarkService struct {
	db           *gorm.DB
	log          *logger.Logger
	bookmarkRepo repos.BookmarkRepo
	lessonRepo   repos.LessonRepo
}

func NewBookmarkService(db *gorm.DB, log *logger.Logger, bookmarkRepo repos.BookmarkRepo, lessonRepo repos.LessonRepo) BookmarkService {
	return &bookmarkService{
		db:           db,
		log:          log.With("service", "BookmarkService"),
		bookmarkRepo: bookmarkRepo,
		lessonRepo:   lessonRepo,
	}
}

func (bs *bookmarkService) List(dbc dbctx.Context) ([]*types.Bookmark, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	return bs.bookmarkRepo.ListByUser(dbc, userID)
}

func (bs *bookmarkService) IsBookmarked(dbc dbctx.Context, lessonID uuid.UUID) (bool, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return false, err
	}
	return bs.bookmarkRepo.Exists(dbc, userID, lessonID)
}

func (bs *bookmarkService) Add(dbc dbctx.Context, lessonID uuid.UUID) (*types.Bookmark, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if lessonID == uuid.Nil {
		return nil, ErrLessonIDRequired
	}
	lesson, err := bs.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	exists, err := bs.bookmarkRepo.Exists(dbc, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("check bookmark: %w", err)
	}
	if exists {
		return nil, ErrAlreadyBookmarked
	}
	b := &types.Bookmark{UserID: userID, LessonID: lessonID}
	if err := bs.bookmarkRepo.Create(dbc, b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyBookmarked
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return b, nil
}

func (bs *bookmarkService) Remove(dbc dbctx.Context, lessonID uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	found, err := bs.bookmarkRepo.Delete(dbc, userID, lessonID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if !found {
		return ErrBookmarkNotFound
	}
	return nil
}
