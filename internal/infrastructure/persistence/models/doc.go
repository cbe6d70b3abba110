// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - contact.go: Contact context models (Contact, Address, details, relationships)
// - mandate.go: Mandate context models (Mandate, members, activities)
// - fund.go: Fund context models (Fund, Investor, cashflows, reports)
// - identity.go: Identity context models (User, UserGroup, MandateGroup)
// - banking.go / document.go / task.go / list.go / newsletter.go: supporting aggregates
// - audit.go: append-only version records
package models
