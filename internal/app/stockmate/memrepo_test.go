package stockmate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

// memRepo: хранилище в памяти с теми же правилами владения, что и Postgres.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]models.User
	inventory map[string]models.InventoryItem
	shopping  map[string]models.ShoppingItem
	recipes   map[string]models.Recipe
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:     map[string]models.User{},
		inventory: map[string]models.InventoryItem{},
		shopping:  map[string]models.ShoppingItem{},
		recipes:   map[string]models.Recipe{},
	}
}

func (m *memRepo) emailTaken(email, exceptID string) bool {
	for id, u := range m.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (m *memRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, "") {
		return nil, models.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return &user, nil
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRepo) GetUser(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memRepo) TouchLogin(_ context.Context, userID string, at time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if u.FirstLogin == nil {
		u.FirstLogin = &at
	}
	u.LastLogin = &at
	m.users[userID] = u
	return &u, nil
}

func (m *memRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.users[userID] = u
	return nil
}

func (m *memRepo) UpdateUser(_ context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Email != nil {
		if m.emailTaken(*patch.Email, userID) {
			return nil, models.ErrEmailTaken
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.DOB != nil {
		u.DOB = patch.DOB
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return &u, nil
}

func (m *memRepo) DeleteUser(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(m.users, userID)
	for id, item := range m.inventory {
		if item.UserID == userID {
			delete(m.inventory, id)
		}
	}
	for id, item := range m.shopping {
		if item.UserID == userID {
			delete(m.shopping, id)
		}
	}
	for id, r := range m.recipes {
		if r.UserID == userID {
			delete(m.recipes, id)
		}
	}
	return &u, nil
}

func (m *memRepo) CountOwned(_ context.Context, userID string) (models.OwnedCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var counts models.OwnedCounts
	for _, item := range m.inventory {
		if item.UserID == userID {
			counts.InventoryItems++
		}
	}
	for _, item := range m.shopping {
		if item.UserID == userID {
			counts.ShoppingItems++
		}
	}
	for _, r := range m.recipes {
		if r.UserID == userID {
			counts.Recipes++
		}
	}
	return counts, nil
}

func (m *memRepo) CreateInventoryItem(_ context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[item.UserID]; !ok {
		return nil, models.ErrNotFound
	}
	item.ID = uuid.NewString()
	item.AddedAt = time.Now().UTC()
	m.inventory[item.ID] = item
	return &item, nil
}

func (m *memRepo) ListInventory(_ context.Context, userID string) ([]*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*models.InventoryItem, 0)
	for _, item := range m.inventory {
		if item.UserID == userID {
			item := item
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	return items, nil
}

func (m *memRepo) UpdateInventoryItem(_ context.Context, id, userID string, patch models.InventoryPatch) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.inventory[id]
	if !ok || item.UserID != userID {
		return nil, models.ErrNotFound
	}
	if patch.ItemName != nil {
		item.ItemName = *patch.ItemName
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.ExpiryDate != nil {
		item.ExpiryDate = patch.ExpiryDate
	}
	m.inventory[id] = item
	return &item, nil
}

func (m *memRepo) RemoveInventoryItem(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.inventory[id]
	if !ok || item.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.inventory, id)
	return nil
}

func (m *memRepo) CreateShoppingItem(_ context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[item.UserID]; !ok {
		return nil, models.ErrNotFound
	}
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	m.shopping[item.ID] = item
	return &item, nil
}

func (m *memRepo) ListShopping(_ context.Context, userID string) ([]*models.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*models.ShoppingItem, 0)
	for _, item := range m.shopping {
		if item.UserID == userID {
			item := item
			items = append(items, &item)
		}
	}
	return items, nil
}

func (m *memRepo) UpdateShoppingItem(_ context.Context, id, userID string, patch models.ShoppingPatch) (*models.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.shopping[id]
	if !ok || item.UserID != userID {
		return nil, models.ErrNotFound
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Amount != nil {
		item.Amount = *patch.Amount
	}
	m.shopping[id] = item
	return &item, nil
}

func (m *memRepo) RemoveShoppingItem(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.shopping[id]
	if !ok || item.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.shopping, id)
	return nil
}

func (m *memRepo) CreateRecipe(_ context.Context, recipe models.Recipe) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[recipe.UserID]; !ok {
		return nil, models.ErrNotFound
	}
	recipe.ID = uuid.NewString()
	recipe.CreatedAt = time.Now().UTC()
	m.recipes[recipe.ID] = recipe
	return &recipe, nil
}

func (m *memRepo) ListRecipes(_ context.Context, userID string) ([]*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipes := make([]*models.Recipe, 0)
	for _, r := range m.recipes {
		if r.UserID == userID {
			r := r
			recipes = append(recipes, &r)
		}
	}
	return recipes, nil
}

func (m *memRepo) UpdateRecipe(_ context.Context, id, userID string, patch models.RecipePatch) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok || r.UserID != userID {
		return nil, models.ErrNotFound
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Ingredients != nil {
		r.Ingredients = patch.Ingredients
	}
	if patch.Instructions != nil {
		r.Instructions = *patch.Instructions
	}
	m.recipes[id] = r
	return &r, nil
}

func (m *memRepo) RemoveRecipe(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok || r.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}
