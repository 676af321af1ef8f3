package repository

import (
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"gorm.io/gorm"
)

// HelpRequestRepositoryImpl implements HelpRequestRepository
type HelpRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewHelpRequestRepository(db *gorm.DB) models.HelpRequestRepository {
	return &HelpRequestRepositoryImpl{db: db}
}

func (r *HelpRequestRepositoryImpl) Create(req *models.HelpRequest) error {
	return r.db.Create(req).Error
}

func (r *HelpRequestRepositoryImpl) GetByID(id uint) (*models.HelpRequest, error) {
	var req models.HelpRequest
	err := r.db.First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *HelpRequestRepositoryImpl) GetAll() ([]models.HelpRequest, error) {
	var requests []models.HelpRequest
	err := r.db.Order("id").Find(&requests).Error
	return requests, err
}

func (r *HelpRequestRepositoryImpl) GetByStatus(status string) ([]models.HelpRequest, error) {
	var requests []models.HelpRequest
	err := r.db.Where("status = ?", status).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *HelpRequestRepositoryImpl) Update(req *models.HelpRequest) error {
	return r.db.Save(req).Error
}

// KnowledgeBaseRepositoryImpl implements KnowledgeBaseRepository
type KnowledgeBaseRepositoryImpl struct {
	db *gorm.DB
}

func NewKnowledgeBaseRepository(db *gorm.DB) models.KnowledgeBaseRepository {
	return &KnowledgeBaseRepositoryImpl{db: db}
}

func (r *KnowledgeBaseRepositoryImpl) Create(entry *models.KnowledgeBaseEntry) error {
	return r.db.Create(entry).Error
}

func (r *KnowledgeBaseRepositoryImpl) GetByID(id string) (*models.KnowledgeBaseEntry, error) {
	var entry models.KnowledgeBaseEntry
	err := r.db.First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *KnowledgeBaseRepositoryImpl) GetAll() ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry
	err := r.db.Order("created_at").Find(&entries).Error
	return entries, err
}

func (r *KnowledgeBaseRepositoryImpl) GetBySource(source string) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry
	err := r.db.Where("source = ?", source).
		Order("created_at").
		Find(&entries).Error
	return entries, err
}

func (r *KnowledgeBaseRepositoryImpl) GetRecent(limit int) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	HelpRequest   models.HelpRequestRepository
	KnowledgeBase models.KnowledgeBaseRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		HelpRequest:   NewHelpRequestRepository(db),
		KnowledgeBase: NewKnowledgeBaseRepository(db),
	}
}
