package services

import (
	"context"
	"mime/multipart"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/app/repositories"
	"github.com/classforge/classforge/internal/pkg/apperrors"
	"github.com/classforge/classforge/internal/pkg/filestorage"
	"github.com/classforge/classforge/internal/pkg/logger"
)

// ContentService manages modules and materials of an existing course, the
// post-publish editing surface the upload summary points authors to.
type ContentService struct {
	courseRepo   *repositories.CourseRepository
	moduleRepo   *repositories.ModuleRepository
	materialRepo *repositories.MaterialRepository
	fileRepo     *repositories.FileRepository
	storage      filestorage.FileStorage
}

// NewContentService creates a new ContentService.
func NewContentService(
	courseRepo *repositories.CourseRepository,
	moduleRepo *repositories.ModuleRepository,
	materialRepo *repositories.MaterialRepository,
	fileRepo *repositories.FileRepository,
	storage filestorage.FileStorage,
) *ContentService {
	return &ContentService{
		courseRepo:   courseRepo,
		moduleRepo:   moduleRepo,
		materialRepo: materialRepo,
		fileRepo:     fileRepo,
		storage:      storage,
	}
}

// CreateModule appends a module to a course.
func (s *ContentService) CreateModule(ctx context.Context, courseID int64, req dto.CreateModuleRequest, actor Actor) (*dto.ModuleResponse, error) {
	if err := s.authorizeCourse(ctx, courseID, actor); err != nil {
		return nil, err
	}

	position, err := s.moduleRepo.NextPosition(ctx, courseID)
	if err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    position,
	}
	id, err := s.moduleRepo.CreateModule(ctx, module)
	if err != nil {
		return nil, err
	}
	module.ID = id

	resp := dto.NewModuleResponse(module)
	return &resp, nil
}

// ListModules returns a course's modules with their materials, in order.
func (s *ContentService) ListModules(ctx context.Context, courseID int64, actor Actor) ([]dto.ModuleResponse, error) {
	if err := s.authorizeCourse(ctx, courseID, actor); err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		materials, err := s.materialRepo.ListByModule(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m.Materials = make([]models.Material, 0, len(materials))
		for _, mat := range materials {
			m.Materials = append(m.Materials, *mat)
		}
		resp = append(resp, dto.NewModuleResponse(m))
	}
	return resp, nil
}

// UpdateModule rewrites a module's title and description.
func (s *ContentService) UpdateModule(ctx context.Context, moduleID int64, req dto.UpdateModuleRequest, actor Actor) error {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if module == nil {
		return apperrors.ErrModuleNotFound
	}
	if err := s.authorizeCourse(ctx, module.CourseID, actor); err != nil {
		return err
	}

	module.Title = req.Title
	module.Description = req.Description
	return s.moduleRepo.Update(ctx, module)
}

// DeleteModule removes a module and its materials.
func (s *ContentService) DeleteModule(ctx context.Context, moduleID int64, actor Actor) error {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if module == nil {
		return apperrors.ErrModuleNotFound
	}
	if err := s.authorizeCourse(ctx, module.CourseID, actor); err != nil {
		return err
	}
	return s.moduleRepo.Delete(ctx, moduleID)
}

// ReorderModules moves a course's modules into the given ID order. The
// request must list every module of the course exactly once.
func (s *ContentService) ReorderModules(ctx context.Context, courseID int64, orderedIDs []int64, actor Actor) error {
	if err := s.authorizeCourse(ctx, courseID, actor); err != nil {
		return err
	}

	existing, err := s.moduleRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err := checkReorderIDs(existing, orderedIDs); err != nil {
		return err
	}
	return s.moduleRepo.Reorder(ctx, courseID, orderedIDs)
}

// ReorderMaterials moves a module's materials into the given ID order.
func (s *ContentService) ReorderMaterials(ctx context.Context, moduleID int64, orderedIDs []int64, actor Actor) error {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if module == nil {
		return apperrors.ErrModuleNotFound
	}
	if err := s.authorizeCourse(ctx, module.CourseID, actor); err != nil {
		return err
	}

	materials, err := s.materialRepo.ListByModule(ctx, moduleID)
	if err != nil {
		return err
	}
	existing := make(map[int64]bool, len(materials))
	for _, m := range materials {
		existing[m.ID] = true
	}
	if err := checkIDCover(existing, orderedIDs); err != nil {
		return err
	}
	return s.materialRepo.Reorder(ctx, moduleID, orderedIDs)
}

func checkReorderIDs(modules []*models.Module, orderedIDs []int64) error {
	existing := make(map[int64]bool, len(modules))
	for _, m := range modules {
		existing[m.ID] = true
	}
	return checkIDCover(existing, orderedIDs)
}

// checkIDCover verifies the ordered list names each existing ID exactly
// once, so a stale client cannot silently drop or duplicate positions.
func checkIDCover(existing map[int64]bool, orderedIDs []int64) error {
	if len(orderedIDs) != len(existing) {
		return apperrors.NewBadRequestError("The order must list every item exactly once")
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !existing[id] || seen[id] {
			return apperrors.NewBadRequestError("The order must list every item exactly once")
		}
		seen[id] = true
	}
	return nil
}

// CreateMaterial adds a material to a module. Video and PDF materials carry
// an upload; link materials carry a URL instead.
func (s *ContentService) CreateMaterial(ctx context.Context, moduleID int64, req dto.CreateMaterialRequest, file *multipart.FileHeader, actor Actor) (*dto.MaterialResponse, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, apperrors.ErrModuleNotFound
	}
	if err := s.authorizeCourse(ctx, module.CourseID, actor); err != nil {
		return nil, err
	}

	materialType := models.MaterialType(req.Type)
	if !materialType.Valid() {
		return nil, apperrors.NewBadRequestError("Unknown material type")
	}

	var fileURL *string
	switch {
	case materialType.FileBacked():
		if file == nil {
			return nil, apperrors.NewBadRequestError("This material type requires a file")
		}
		url, err := s.storage.SaveFileWithPath(file, "materials")
		if err != nil {
			return nil, err
		}
		fileURL = &url
	case req.URL != "":
		url := req.URL
		fileURL = &url
	default:
		return nil, apperrors.NewBadRequestError("A link material requires a URL")
	}

	position, err := s.materialRepo.NextPosition(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	material := &models.Material{
		CourseID: module.CourseID,
		ModuleID: moduleID,
		Title:    req.Title,
		Type:     materialType,
		Position: position,
		FileURL:  fileURL,
	}
	if req.Description != "" {
		description := req.Description
		material.Description = &description
	}

	id, err := s.materialRepo.CreateMaterial(ctx, material)
	if err != nil {
		return nil, err
	}
	material.ID = id

	if materialType.FileBacked() {
		s.trackFile(ctx, file, *fileURL, id, actor)
	}

	resp := dto.NewMaterialResponse(material)
	return &resp, nil
}

// GetMaterial returns one material.
func (s *ContentService) GetMaterial(ctx context.Context, materialID int64, actor Actor) (*dto.MaterialResponse, error) {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperrors.ErrMaterialNotFound
	}
	if err := s.authorizeCourse(ctx, material.CourseID, actor); err != nil {
		return nil, err
	}
	resp := dto.NewMaterialResponse(material)
	return &resp, nil
}

// UpdateMaterial rewrites a material's metadata and, when a new file is
// supplied, replaces its stored payload.
func (s *ContentService) UpdateMaterial(ctx context.Context, materialID int64, req dto.UpdateMaterialRequest, file *multipart.FileHeader, actor Actor) error {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return err
	}
	if material == nil {
		return apperrors.ErrMaterialNotFound
	}
	if err := s.authorizeCourse(ctx, material.CourseID, actor); err != nil {
		return err
	}

	material.Title = req.Title
	material.Description = nil
	if req.Description != "" {
		description := req.Description
		material.Description = &description
	}

	switch {
	case file != nil && material.Type.FileBacked():
		url, err := s.storage.SaveFileWithPath(file, "materials")
		if err != nil {
			return err
		}
		if material.FileURL != nil {
			if err := s.storage.DeleteFile(*material.FileURL); err != nil {
				logger.Warn().Err(err).Int64("materialID", materialID).Msg("Could not delete replaced material file")
			}
		}
		if err := s.fileRepo.DeleteByResource(ctx, models.FileResourceMaterial, materialID); err != nil {
			logger.Warn().Err(err).Int64("materialID", materialID).Msg("Could not drop replaced file record")
		}
		material.FileURL = &url
		s.trackFile(ctx, file, url, materialID, actor)
	case req.URL != "" && !material.Type.FileBacked():
		url := req.URL
		material.FileURL = &url
	}

	return s.materialRepo.Update(ctx, material)
}

// DeleteMaterial removes a material and its stored file, if any.
func (s *ContentService) DeleteMaterial(ctx context.Context, materialID int64, actor Actor) error {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return err
	}
	if material == nil {
		return apperrors.ErrMaterialNotFound
	}
	if err := s.authorizeCourse(ctx, material.CourseID, actor); err != nil {
		return err
	}

	if err := s.materialRepo.Delete(ctx, materialID); err != nil {
		return err
	}
	if material.Type.FileBacked() && material.FileURL != nil {
		if err := s.storage.DeleteFile(*material.FileURL); err != nil {
			logger.Warn().Err(err).Int64("materialID", materialID).Msg("Could not delete material file")
		}
		if err := s.fileRepo.DeleteByResource(ctx, models.FileResourceMaterial, materialID); err != nil {
			logger.Warn().Err(err).Int64("materialID", materialID).Msg("Could not drop file record")
		}
	}
	return nil
}

// trackFile records metadata for a stored payload. Failures are logged
// only; the files table is bookkeeping, not the source of truth.
func (s *ContentService) trackFile(ctx context.Context, file *multipart.FileHeader, url string, materialID int64, actor Actor) {
	_, err := s.fileRepo.CreateFile(ctx, &models.File{
		FileName:     file.Filename,
		FileURL:      url,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		ResourceType: models.FileResourceMaterial,
		ResourceID:   materialID,
		UploadedBy:   actor.UserID,
	})
	if err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("Could not record file metadata")
	}
}

func (s *ContentService) authorizeCourse(ctx context.Context, courseID int64, actor Actor) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return apperrors.ErrCourseNotFound
	}
	return authorizeCourseAccess(course, actor)
}
