// Package reaction implements the shared like/favorite toggle. One call
// flips the caller's membership on a resource and keeps the resource's
// counter column equal to the membership cardinality. The whole
// read-modify-write runs in a single transaction, and the counter only
// moves when a membership row actually changed, so a concurrent duplicate
// toggle by the same user (a double-click racing itself past the delete)
// hits the composite unique index, inserts nothing and counts nothing.
package reaction

import (
	"context"

	"bloghub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Target names one toggleable reaction set: the membership rows, the
// owning resource row and its counter column.
type Target struct {
	rowModel      interface{}                   // membership model, for deletes
	newRow        func(userID uint) interface{} // membership row to insert
	fkColumn      string                        // membership column referencing the resource
	counterModel  interface{}                   // resource model holding the counter
	counterColumn string
	resourceID    uint
}

// PostLike is the like set of a post, counted in posts.likes_count.
func PostLike(postID uint) Target {
	return Target{
		rowModel:      &models.PostLike{},
		newRow:        func(userID uint) interface{} { return &models.PostLike{UserID: userID, PostID: postID} },
		fkColumn:      "post_id",
		counterModel:  &models.Post{},
		counterColumn: "likes_count",
		resourceID:    postID,
	}
}

// PostFavorite is the favorite set of a post, counted in posts.favorite_count.
func PostFavorite(postID uint) Target {
	return Target{
		rowModel:      &models.PostFavorite{},
		newRow:        func(userID uint) interface{} { return &models.PostFavorite{UserID: userID, PostID: postID} },
		fkColumn:      "post_id",
		counterModel:  &models.Post{},
		counterColumn: "favorite_count",
		resourceID:    postID,
	}
}

// CommentLike is the like set of a comment, counted in comments.likes_count.
func CommentLike(commentID uint) Target {
	return Target{
		rowModel:      &models.CommentLike{},
		newRow:        func(userID uint) interface{} { return &models.CommentLike{UserID: userID, CommentID: commentID} },
		fkColumn:      "comment_id",
		counterModel:  &models.Comment{},
		counterColumn: "likes_count",
		resourceID:    commentID,
	}
}

// Toggle flips userID's membership in the target set and returns the
// resulting membership and counter as persisted. Delete-first: a removed
// row is the un-react branch, otherwise a row is inserted (ON CONFLICT DO
// NOTHING). The counter is read back inside the transaction so membership
// and count can never be observed disagreeing.
func Toggle(ctx context.Context, conn *gorm.DB, userID uint, t Target) (active bool, count int64, err error) {
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND "+t.fkColumn+" = ?", userID, t.resourceID).Delete(t.rowModel)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			active = false
			if err := bump(tx, t, -1); err != nil {
				return err
			}
		} else {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t.newRow(userID))
			if ins.Error != nil {
				return ins.Error
			}
			active = true
			// RowsAffected == 0 means a concurrent toggle already
			// inserted the row; the count must not move twice.
			if ins.RowsAffected == 1 {
				if err := bump(tx, t, +1); err != nil {
					return err
				}
			}
		}

		return tx.Model(t.counterModel).
			Where("id = ?", t.resourceID).
			Select(t.counterColumn).
			Scan(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return active, count, nil
}

func bump(tx *gorm.DB, t Target, delta int) error {
	return tx.Model(t.counterModel).
		Where("id = ?", t.resourceID).
		UpdateColumn(t.counterColumn, gorm.Expr(t.counterColumn+" + ?", delta)).Error
}

// IsActive reports whether userID is currently in the target set.
func IsActive(ctx context.Context, conn *gorm.DB, userID uint, t Target) (bool, error) {
	var n int64
	err := conn.WithContext(ctx).Model(t.rowModel).
		Where("user_id = ? AND "+t.fkColumn+" = ?", userID, t.resourceID).
		Count(&n).Error
	return n > 0, err
}
