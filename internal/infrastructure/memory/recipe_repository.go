package memory

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo catálogo de recetas en memoria. Aplica las mismas reglas de unicidad que los
// índices de PostgreSQL.
type RecipeRepo struct {
	s *Store
}

func copyRecipe(r entity.Recipe) *entity.Recipe {
	r.VariantCombination = maps.Clone(r.VariantCombination)
	r.Ingredients = slices.Clone(r.Ingredients)
	return &r
}

func (r *RecipeRepo) find(match func(entity.Recipe) bool) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := r.s.view(nil, func(st *state) error {
		for _, rec := range st.recipes {
			if match(rec) {
				out = copyRecipe(rec)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *RecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	return r.find(func(rec entity.Recipe) bool { return rec.ID == id })
}

func (r *RecipeRepo) GetBase(_ context.Context, productID string) (*entity.Recipe, error) {
	return r.find(func(rec entity.Recipe) bool {
		return rec.Scope == entity.ScopeBase && rec.ProductID == productID
	})
}

func (r *RecipeRepo) GetOverride(_ context.Context, productID string, combination entity.VariantCombination) (*entity.Recipe, error) {
	key := combination.Key()
	return r.find(func(rec entity.Recipe) bool {
		return rec.Scope == entity.ScopeProductOverride && rec.ProductID == productID && rec.VariantCombination.Key() == key
	})
}

func (r *RecipeRepo) ListVariantCandidates(_ context.Context, productID string, optionIDs []string) ([]*entity.Recipe, error) {
	var out []*entity.Recipe
	err := r.s.view(nil, func(st *state) error {
		for _, rec := range st.recipes {
			if rec.Scope != entity.ScopeVariantSpecific {
				continue
			}
			if rec.ProductID != "" && rec.ProductID != productID {
				continue
			}
			for _, o := range rec.VariantCombination {
				if slices.Contains(optionIDs, o) {
					out = append(out, copyRecipe(rec))
					break
				}
			}
		}
		return nil
	})
	sortRecipes(out)
	return out, err
}

func (r *RecipeRepo) List(_ context.Context, productID string) ([]*entity.Recipe, error) {
	var out []*entity.Recipe
	err := r.s.view(nil, func(st *state) error {
		for _, rec := range st.recipes {
			if productID == "" || rec.ProductID == productID {
				out = append(out, copyRecipe(rec))
			}
		}
		return nil
	})
	sortRecipes(out)
	return out, err
}

func (r *RecipeRepo) Upsert(_ context.Context, recipe *entity.Recipe) error {
	return r.s.view(nil, func(st *state) error {
		for id, rec := range st.recipes {
			if id == recipe.ID {
				continue
			}
			if rec.Key() == recipe.Key() {
				return domain.ErrDuplicateRecipe
			}
			if recipe.Scope == entity.ScopeBase && rec.Scope == entity.ScopeBase && rec.ProductID == recipe.ProductID {
				return domain.ErrDuplicateRecipe
			}
		}
		st.recipes[recipe.ID] = *copyRecipe(*recipe)
		return nil
	})
}

func (r *RecipeRepo) Delete(_ context.Context, id string) error {
	return r.s.view(nil, func(st *state) error {
		if _, ok := st.recipes[id]; !ok {
			return domain.RecipeNotFound(id)
		}
		delete(st.recipes, id)
		return nil
	})
}

func sortRecipes(list []*entity.Recipe) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
