package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles
const (
	RoleAdmin        = "ADMIN"
	RoleDoctor       = "DOCTOR"
	RoleNurse        = "NURSE"
	RoleReceptionist = "RECEPTIONIST"
)

// Role represents a user role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: RoleAdmin, Description: "Full access to the system"},
		{Name: RoleDoctor, Description: "Admits and discharges patients"},
		{Name: RoleNurse, Description: "Ward operations, bed charges and discharge"},
		{Name: RoleReceptionist, Description: "Registration, deposits and final billing"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a staff member in the system
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	RoleID    int64     `gorm:"index;not null;column:role_id" json:"roleId"`
	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create staff accounts"},
		{Name: "view_ledger", Description: "View admission ledgers"},
		{Name: "post_ledger", Description: "Post charges, deposits, payments, refunds and adjustments"},
		{Name: "manage_admissions", Description: "Admit and discharge patients"},
		{Name: "finalize_bills", Description: "Close an admission into a bill"},
		{Name: "manage_beds", Description: "Maintain wards, bed types and beds"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"roleId"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permissionId"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

var rolePermissionNames = map[string][]string{
	RoleAdmin:        {"manage_users", "view_ledger", "post_ledger", "manage_admissions", "finalize_bills", "manage_beds"},
	RoleDoctor:       {"view_ledger", "manage_admissions"},
	RoleNurse:        {"view_ledger", "post_ledger", "manage_admissions", "manage_beds"},
	RoleReceptionist: {"view_ledger", "post_ledger", "finalize_bills"},
}

// SeedRolePermissions links the seeded roles to their permissions by name
func SeedRolePermissions(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for roleName, permissionNames := range rolePermissionNames {
			var role Role
			if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
				return err
			}
			var permissions []Permission
			if err := tx.Where("name IN ?", permissionNames).Find(&permissions).Error; err != nil {
				return err
			}
			for _, permission := range permissions {
				link := RolePermission{RoleID: role.ID, PermissionID: permission.ID}
				if err := tx.FirstOrCreate(&link, link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
