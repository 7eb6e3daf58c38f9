package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/offerhub/offerhub-go/internal/model"
)

var ErrOfferNotFound = errors.New("offer not found")

const offerColumns = `o.id, o.product_name, o.product_description, o.product_price,
	o.product_details, o.product_image, o.product_pictures, o.owner_id, o.created_at`

// OfferRepository handles offer persistence operations.
type OfferRepository struct {
	db *sql.DB
}

// NewOfferRepository creates a new OfferRepository.
func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserts a new offer. The offer must already carry its id.
func (r *OfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	query := `INSERT INTO offers (id, product_name, product_description, product_price,
		product_details, product_image, product_pictures, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	details, image, pictures, err := encodeOfferDocuments(offer)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		offer.ID, offer.Name, offer.Description, offer.Price,
		details, image, pictures, nullString(offer.OwnerID),
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer with its owner's public profile, phone included.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	query := `SELECT ` + offerColumns + `, u.username, u.phone, u.avatar
		FROM offers o LEFT JOIN users u ON u.id = o.owner_id
		WHERE o.id = ?`

	var (
		offer    model.Offer
		row      offerRow
		username sql.NullString
		phone    sql.NullString
		avatar   []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(append(row.targets(&offer), &username, &phone, &avatar)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("select offer: %w", err)
	}

	if err := row.decode(&offer); err != nil {
		return nil, err
	}
	if err := attachOwner(&offer, username, phone, avatar); err != nil {
		return nil, err
	}

	return &offer, nil
}

// Search returns one page of offers matching q together with the size of the whole filtered set.
// q must already be normalized: Page >= 1 and Limit >= 1.
func (r *OfferRepository) Search(ctx context.Context, q model.OfferQuery) (*model.OfferList, error) {
	where, args := buildOfferFilter(q)

	query := `SELECT ` + offerColumns + `, u.username, u.avatar
		FROM offers o LEFT JOIN users u ON u.id = o.owner_id` +
		where + orderClause(q.Sort) + ` LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("search offers: %w", err)
	}
	defer rows.Close()

	offers := []model.Offer{}
	for rows.Next() {
		var (
			offer    model.Offer
			row      offerRow
			username sql.NullString
			avatar   []byte
		)
		if err := rows.Scan(append(row.targets(&offer), &username, &avatar)...); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		if err := row.decode(&offer); err != nil {
			return nil, err
		}
		if err := attachOwner(&offer, username, sql.NullString{}, avatar); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM offers o` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	return &model.OfferList{Count: count, Offers: offers}, nil
}

// Update overwrites the mutable columns of an existing offer.
func (r *OfferRepository) Update(ctx context.Context, offer *model.Offer) error {
	query := `UPDATE offers SET product_name = ?, product_description = ?, product_price = ?,
		product_details = ?, product_image = ?, product_pictures = ?
		WHERE id = ?`

	details, image, pictures, err := encodeOfferDocuments(offer)
	if err != nil {
		return err
	}

	// An unchanged row reports zero affected rows, so existence is checked by the caller.
	_, err = r.db.ExecContext(ctx, query,
		offer.Name, offer.Description, offer.Price, details, image, pictures, offer.ID,
	)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}

	return nil
}

// Delete removes an offer by id.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if rows == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// offerRow holds the raw JSON and nullable columns of an offer row until they are decoded.
type offerRow struct {
	details  []byte
	image    []byte
	pictures []byte
	ownerID  sql.NullString
}

func (row *offerRow) targets(offer *model.Offer) []any {
	return []any{
		&offer.ID, &offer.Name, &offer.Description, &offer.Price,
		&row.details, &row.image, &row.pictures, &row.ownerID, &offer.CreatedAt,
	}
}

func (row *offerRow) decode(offer *model.Offer) error {
	var err error
	if offer.Details, err = decodeDetails(row.details); err != nil {
		return err
	}
	if offer.Image, err = decodeAsset(row.image); err != nil {
		return err
	}
	if offer.Pictures, err = decodeAssets(row.pictures); err != nil {
		return err
	}
	offer.OwnerID = row.ownerID.String
	return nil
}

func attachOwner(offer *model.Offer, username, phone sql.NullString, avatar []byte) error {
	if offer.OwnerID == "" || !username.Valid {
		return nil
	}
	asset, err := decodeAsset(avatar)
	if err != nil {
		return err
	}
	offer.Owner = &model.Owner{
		ID: offer.OwnerID,
		Account: model.Account{
			Username: username.String,
			Phone:    phone.String,
			Avatar:   asset,
		},
	}
	return nil
}

func encodeOfferDocuments(offer *model.Offer) (details, image, pictures any, err error) {
	details = "[]"
	if len(offer.Details) > 0 {
		if details, err = encodeJSON(offer.Details); err != nil {
			return nil, nil, nil, fmt.Errorf("encode details: %w", err)
		}
	}
	if image, err = encodeJSON(offer.Image); err != nil {
		return nil, nil, nil, fmt.Errorf("encode image: %w", err)
	}
	if pictures, err = encodeJSON(offer.Pictures); err != nil {
		return nil, nil, nil, fmt.Errorf("encode pictures: %w", err)
	}
	return details, image, pictures, nil
}

// buildOfferFilter renders the WHERE clause shared by the page and count queries.
func buildOfferFilter(q model.OfferQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.Title != "" {
		conds = append(conds, `LOWER(o.product_name) LIKE ?`)
		args = append(args, "%"+escapeLike(strings.ToLower(q.Title))+"%")
	}
	if q.PriceMin != nil {
		conds = append(conds, `o.product_price >= ?`)
		args = append(args, *q.PriceMin)
	}
	if q.PriceMax != nil {
		conds = append(conds, `o.product_price <= ?`)
		args = append(args, *q.PriceMax)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func orderClause(sort string) string {
	switch sort {
	case model.SortPriceAsc:
		return ` ORDER BY o.product_price ASC, o.seq ASC`
	case model.SortPriceDesc:
		return ` ORDER BY o.product_price DESC, o.seq ASC`
	default:
		return ` ORDER BY o.seq ASC`
	}
}
