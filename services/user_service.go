package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HealthifyGo/config"
	"HealthifyGo/models"
	"HealthifyGo/utils"

	"gorm.io/gorm"
)

const minPasswordLength = 6

type UserService struct {
	db    *gorm.DB
	cache SummaryCache
}

func NewUserService(db *gorm.DB, cache SummaryCache) *UserService {
	if cache == nil {
		cache = noopCache{}
	}
	return &UserService{db: db, cache: cache}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func (s *UserService) checkUnique(tx *gorm.DB, username string, email *string, exceptID uint) error {
	var count int64
	if username != "" {
		q := tx.Model(&models.User{}).Where("username = ?", username)
		if exceptID != 0 {
			q = q.Where("id <> ?", exceptID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if count > 0 {
			return &ConflictError{Message: "用户名已被使用"}
		}
	}
	if email != nil {
		q := tx.Model(&models.User{}).Where("email = ?", *email)
		if exceptID != 0 {
			q = q.Where("id <> ?", exceptID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if count > 0 {
			return &ConflictError{Message: "邮箱已被使用"}
		}
	}
	return nil
}

// newAccount 新账号的参数，actorID 为 0 表示用户自己注册
type newAccount struct {
	username string
	password string
	email    *string
	role     string
	inactive bool
	actorID  uint
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return validationf("密码至少需要%d位", minPasswordLength)
	}
	return nil
}

func (s *UserService) create(ctx context.Context, acct newAccount) (*models.User, error) {
	username := strings.TrimSpace(acct.username)
	if len(username) < 3 || len(username) > 64 {
		return nil, validationf("用户名长度需要在3到64之间")
	}
	if err := validatePassword(acct.password); err != nil {
		return nil, err
	}
	if acct.role != models.RoleUser && acct.role != models.RoleAdmin {
		return nil, validationf("无效的角色: %s", acct.role)
	}
	email := normalizeEmail(acct.email)
	if email != nil && !strings.Contains(*email, "@") {
		return nil, validationf("无效的邮箱: %s", *email)
	}

	hash, err := utils.HashPassword(acct.password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         acct.role,
		IsActive:     true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, username, email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "用户名或邮箱已被使用"}
			}
			return fmt.Errorf("用户创建失败: %w", err)
		}
		// is_active 有数据库默认值，false 需要单独写入
		if acct.inactive {
			if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("用户创建失败: %w", err)
			}
			user.IsActive = false
		}
		if acct.actorID != 0 {
			return logActivity(tx, acct.actorID, ActionUserCreate, fmt.Sprintf("user=%d role=%s", user.ID, acct.role))
		}
		return logActivity(tx, user.ID, ActionRegister, "role="+acct.role)
	})
	if err != nil {
		return nil, err
	}
	config.Logger.Infow("用户创建成功", "userID", user.ID, "username", user.Username, "role", acct.role)
	return &user, nil
}

// Register 普通用户注册
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, newAccount{username: req.Username, password: req.Password, email: req.Email, role: models.RoleUser})
}

// CreateAdmin 命令行创建管理员账号
func (s *UserService) CreateAdmin(ctx context.Context, username, password string, email *string) (*models.User, error) {
	return s.create(ctx, newAccount{username: username, password: password, email: email, role: models.RoleAdmin})
}

// AdminCreate 管理员在后台创建账号
func (s *UserService) AdminCreate(ctx context.Context, adminID uint, req *models.AdminCreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	return s.create(ctx, newAccount{
		username: req.Username,
		password: req.Password,
		email:    req.Email,
		role:     role,
		inactive: req.IsActive != nil && !*req.IsActive,
		actorID:  adminID,
	})
}

// ChangePassword 校验旧密码后设置新密码
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, oldPassword) {
		return validationf("原密码错误")
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error; err != nil {
			return fmt.Errorf("更新密码失败: %w", err)
		}
		return logActivity(tx, userID, ActionPasswordChange, "")
	})
}

// Authenticate 校验用户名密码并更新最后登录时间
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthenticationError{Message: "用户名或密码错误"}
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, &AuthenticationError{Message: "用户名或密码错误"}
	}
	if !user.IsActive {
		return nil, &AuthenticationError{Message: "账号已被停用"}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("last_login", now).Error; err != nil {
			return fmt.Errorf("更新登录时间失败: %w", err)
		}
		return logActivity(tx, user.ID, ActionLogin, "")
	})
	if err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("用户", userID)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// ActiveRole 账号当前的角色和启用状态，用户不存在时视为未启用
func (s *UserService) ActiveRole(ctx context.Context, userID uint) (string, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role", "is_active").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("查询用户失败: %w", err)
	}
	return user.Role, user.IsActive, nil
}

// IsAdmin 从数据库确认用户是启用状态的管理员
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive && user.IsAdmin(), nil
}

func positive(name string, v *float64) error {
	if v != nil && *v <= 0 {
		return validationf("%s必须大于0", name)
	}
	return nil
}

// UpdateProfile 修改个人资料，身高变化会影响 BMI，所以同时清掉统计缓存
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*models.User, error) {
	for name, v := range map[string]*float64{"身高": req.HeightCM, "体重": req.WeightKG, "目标体重": req.WeightGoal} {
		if err := positive(name, v); err != nil {
			return nil, err
		}
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = normalizeEmail(req.Email)
	}
	if req.Gender != nil {
		user.Gender = strings.TrimSpace(*req.Gender)
	}
	if req.HeightCM != nil {
		user.HeightCM = req.HeightCM
	}
	if req.WeightKG != nil {
		user.WeightKG = req.WeightKG
	}
	if req.WeightGoal != nil {
		user.WeightGoal = req.WeightGoal
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, "", user.Email, user.ID); err != nil {
			return err
		}
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("更新用户失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return user, nil
}

// List 管理员分页查看用户，keyword 匹配用户名或邮箱
func (s *UserService) List(ctx context.Context, keyword string, page, perPage int) ([]models.User, models.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询用户失败: %w", err)
	}
	p := models.NewPagination(page, perPage, total)

	users := []models.User{}
	if err := query.Order("id ASC").Offset(p.Offset()).Limit(p.PerPage).Find(&users).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询用户失败: %w", err)
	}
	return users, p, nil
}

// AdminUpdate 管理员修改角色、启用状态和邮箱。管理员不能停用或降级自己。
func (s *UserService) AdminUpdate(ctx context.Context, adminID, userID uint, req *models.AdminUpdateUserRequest) (*models.User, error) {
	if req.Role != nil && *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
		return nil, validationf("无效的角色: %s", *req.Role)
	}
	if adminID == userID {
		if (req.Role != nil && *req.Role != models.RoleAdmin) || (req.IsActive != nil && !*req.IsActive) {
			return nil, &PermissionError{Message: "不能停用或降级自己的账号"}
		}
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Email != nil {
		user.Email = normalizeEmail(req.Email)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, "", user.Email, user.ID); err != nil {
			return err
		}
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("更新用户失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户及其所有记录、报告、建议请求、手动建议和操作日志
func (s *UserService) Delete(ctx context.Context, adminID, userID uint) error {
	if adminID == userID {
		return &PermissionError{Message: "不能删除自己的账号"}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("删除用户失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("用户", userID)
		}
		owned := []interface{}{
			&models.RecordRow{},
			&models.Report{},
			&models.AdviceRequest{},
			&models.ManualSuggestion{},
			&models.ActivityLog{},
		}
		for _, m := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return fmt.Errorf("删除用户数据失败: %w", err)
			}
		}
		return logActivity(tx, adminID, ActionUserDelete, fmt.Sprintf("user=%d", userID))
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	config.Logger.Infow("删除用户", "userID", userID, "adminID", adminID)
	return nil
}
