package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"campusnest/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// valList marshals a string slice for a JSON column. nil means "never
// supplied" and maps to SQL NULL; an empty slice round-trips as "[]".
func valList(list []string) any {
	if list == nil {
		return nil
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func scanList(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

const erDupEntry = 1062

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.FullName, u.Email, u.PasswordHash, string(u.Role), u.Phone)
	if err != nil {
		if isDuplicate(err) {
			return domain.Conflict("Email already exists")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) SaveProfile(ctx context.Context, u domain.User) error {
	p := u.Profile
	res, err := r.db.ExecContext(ctx, saveProfileSQL,
		u.FullName,
		u.Phone,
		valTime(p.DOB),
		valStr(p.Gender),
		valStr(p.ProfileImage),
		valStr(p.City),
		valStr(p.District),
		valStr(p.State),
		valStr(p.Pincode),
		valStr(p.AffiliationType),
		valStr(p.AffiliationName),
		valStr(p.PreferredCity),
		valStr(p.PreferredDistrict),
		valStr(p.PreferredState),
		valStr(p.PreferredPincode),
		valList(p.PreferredCategories),
		valList(p.PreferredAmenities),
		valList(p.PreferredLocations),
		valInt(p.Budget),
		valStr(p.SharingPreference),
		u.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) SetVerified(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, setVerifiedSQL, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteUser removes the account. The FK cascade drops the user's reviews and
// bookmarks, so the listings those reviews referenced are recounted here, in
// the same transaction.
func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT listing_id FROM reviews WHERE user_id = ?`, id)
	if err != nil {
		return err
	}
	var listingIDs []int64
	for rows.Next() {
		var lid int64
		if err := rows.Scan(&lid); err != nil {
			rows.Close()
			return err
		}
		listingIDs = append(listingIDs, lid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	for _, lid := range listingIDs {
		if _, err := tx.ExecContext(ctx, recountListingSQL, lid, lid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countBetween(ctx, "users", from, to)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		role       string
		dob        sql.NullTime
		gender     sql.NullString
		img        sql.NullString
		city, dist sql.NullString
		state, pin sql.NullString
		affT, affN sql.NullString
		pCity      sql.NullString
		pDist      sql.NullString
		pState     sql.NullString
		pPin       sql.NullString
		cats       []byte
		amens      []byte
		locs       []byte
		budget     sql.NullInt64
		sharing    sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role, &u.Phone, &u.IsVerified,
		&dob, &gender, &img,
		&city, &dist, &state, &pin,
		&affT, &affN,
		&pCity, &pDist, &pState, &pPin,
		&cats, &amens, &locs,
		&budget, &sharing,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	if dob.Valid {
		d := dob.Time
		u.Profile.DOB = &d
	}
	u.Profile.Gender = nullStr(gender)
	u.Profile.ProfileImage = nullStr(img)
	u.Profile.City = nullStr(city)
	u.Profile.District = nullStr(dist)
	u.Profile.State = nullStr(state)
	u.Profile.Pincode = nullStr(pin)
	u.Profile.AffiliationType = nullStr(affT)
	u.Profile.AffiliationName = nullStr(affN)
	u.Profile.PreferredCity = nullStr(pCity)
	u.Profile.PreferredDistrict = nullStr(pDist)
	u.Profile.PreferredState = nullStr(pState)
	u.Profile.PreferredPincode = nullStr(pPin)
	u.Profile.PreferredCategories = scanList(cats)
	u.Profile.PreferredAmenities = scanList(amens)
	u.Profile.PreferredLocations = scanList(locs)
	if budget.Valid {
		b := int(budget.Int64)
		u.Profile.Budget = &b
	}
	u.Profile.SharingPreference = nullStr(sharing)
	return u, nil
}

// ---------------------------------------------------------------------------
// listings
// ---------------------------------------------------------------------------

func (r *Repo) CreateListing(ctx context.Context, l *domain.Listing) error {
	amens, _ := json.Marshal(l.Amenities)
	imgs, _ := json.Marshal(l.Images)
	res, err := r.db.ExecContext(ctx, insertListingSQL,
		l.Title, l.Description, l.Category,
		l.ProviderName, l.ProviderPhone, l.ProviderEmail,
		l.Address, l.Price, l.City, l.State,
		l.Latitude, l.Longitude,
		string(amens), l.Availability, l.IsActive, l.CreatedBy, string(imgs),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Repo) UpdateListing(ctx context.Context, l domain.Listing) error {
	amens, _ := json.Marshal(l.Amenities)
	res, err := r.db.ExecContext(ctx, updateListingSQL,
		l.Title, l.Description, l.Category,
		l.ProviderName, l.ProviderPhone, l.ProviderEmail,
		l.Address, l.Price, l.City, l.State,
		l.Latitude, l.Longitude,
		string(amens), l.Availability, l.IsActive,
		l.ID,
	)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	if l.Images != nil {
		imgs, _ := json.Marshal(l.Images)
		if _, err := r.db.ExecContext(ctx, updateListingImagesSQL, string(imgs), l.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) DeleteListing(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.ExecContext(ctx, setAvailabilitySQL, available, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	return scanListing(r.db.QueryRowContext(ctx, getListingSQL, id))
}

func (r *Repo) ListListings(ctx context.Context, activeOnly bool) ([]domain.Listing, error) {
	q := listListingsSQL
	if activeOnly {
		q = listActiveListingsSQL
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) TitleAddressExists(ctx context.Context, title, address string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, titleAddressExistsSQL, title, address).Scan(&exists)
	return exists, err
}

func (r *Repo) LocationExists(ctx context.Context, lat, lon, delta float64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, locationExistsSQL,
		lat-delta, lat+delta, lon-delta, lon+delta).Scan(&exists)
	return exists, err
}

func (r *Repo) CountListingsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countBetween(ctx, "listings", from, to)
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var (
		l     domain.Listing
		amens []byte
		imgs  []byte
	)
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Category,
		&l.ProviderName, &l.ProviderPhone, &l.ProviderEmail,
		&l.Address, &l.Price, &l.City, &l.State,
		&l.Latitude, &l.Longitude,
		&amens, &l.Availability,
		&l.Rating, &l.ReviewCount, &l.IsActive, &l.CreatedBy,
		&imgs, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, err
	}
	l.Amenities = scanList(amens)
	l.Images = scanList(imgs)
	return l, nil
}

// ---------------------------------------------------------------------------
// reviews
// ---------------------------------------------------------------------------

func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var created any
	if !rv.CreatedAt.IsZero() {
		created = rv.CreatedAt
	}
	res, err := tx.ExecContext(ctx, insertReviewSQL,
		rv.UserID, rv.ListingID, rv.Rating, rv.Comment, created)
	if err != nil {
		if isDuplicate(err) {
			return domain.Conflict("You have already submitted a review for this listing")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, recountListingSQL, rv.ListingID, rv.ListingID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	rv.ID = id
	rv.IsApproved = false
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	res, err := r.db.ExecContext(ctx, updateReviewSQL, rv.Rating, rv.Comment, rv.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var listingID int64
	if err := tx.QueryRowContext(ctx, `SELECT listing_id FROM reviews WHERE id = ?`, id).Scan(&listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, recountListingSQL, listingID, listingID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	var rv domain.Review
	err := r.db.QueryRowContext(ctx, getReviewSQL, id).Scan(
		&rv.ID, &rv.UserID, &rv.ListingID, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.ReviewDetail, error) {
	var (
		conds []string
		args  []any
	)
	if q.ListingID != 0 {
		conds = append(conds, "r.listing_id = ?")
		args = append(args, q.ListingID)
	}
	if q.UserID != 0 {
		conds = append(conds, "r.user_id = ?")
		args = append(args, q.UserID)
	}
	if q.UnapprovedOnly {
		conds = append(conds, "r.is_approved = 0")
	}
	if q.ReviewerName != "" {
		conds = append(conds, "LOWER(u.full_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.ReviewerName)+"%")
	}
	if q.ListingTitle != "" {
		conds = append(conds, "LOWER(l.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.ListingTitle)+"%")
	}
	if q.MinRating != 0 {
		conds = append(conds, "r.rating >= ?")
		args = append(args, q.MinRating)
	}

	sqlStr := listReviewsPrefix
	if len(conds) > 0 {
		sqlStr += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	sqlStr += "ORDER BY r.created_at DESC, r.id DESC"
	if q.Limit > 0 {
		sqlStr += fmt.Sprintf("\nLIMIT %d", q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewDetail
	for rows.Next() {
		var d domain.ReviewDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ListingID, &d.Rating, &d.Comment, &d.IsApproved, &d.CreatedAt,
			&d.UserFullName, &d.ListingTitle,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) SetApproved(ctx context.Context, id int64, approved bool) error {
	res, err := r.db.ExecContext(ctx, setApprovedSQL, approved, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) ReviewTotals(ctx context.Context) (domain.ReviewTotals, error) {
	var t domain.ReviewTotals
	err := r.db.QueryRowContext(ctx, reviewTotalsSQL).Scan(
		&t.Total, &t.Approved, &t.Positive, &t.AverageRating)
	return t, err
}

func (r *Repo) CountReviewsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countBetween(ctx, "reviews", from, to)
}

func (r *Repo) CountReviewsByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// bookmarks
// ---------------------------------------------------------------------------

func (r *Repo) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	res, err := r.db.ExecContext(ctx, insertBookmarkSQL, b.UserID, b.ListingID)
	if err != nil {
		if isDuplicate(err) {
			return domain.Conflict("You have already bookmarked this listing")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Repo) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repo) GetBookmark(ctx context.Context, id int64) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.db.QueryRowContext(ctx, getBookmarkSQL, id).Scan(&b.ID, &b.UserID, &b.ListingID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) FindBookmark(ctx context.Context, userID, listingID int64) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.db.QueryRowContext(ctx, findBookmarkSQL, userID, listingID).Scan(&b.ID, &b.UserID, &b.ListingID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookmarks(ctx context.Context, q domain.BookmarkQuery) ([]domain.BookmarkDetail, error) {
	var (
		conds []string
		args  []any
	)
	if q.UserID != 0 {
		conds = append(conds, "b.user_id = ?")
		args = append(args, q.UserID)
	}
	if q.ListingID != 0 {
		conds = append(conds, "b.listing_id = ?")
		args = append(args, q.ListingID)
	}
	sqlStr := listBookmarksPrefix
	if len(conds) > 0 {
		sqlStr += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	sqlStr += "ORDER BY b.created_at DESC, b.id DESC"
	if q.Limit > 0 {
		sqlStr += fmt.Sprintf("\nLIMIT %d", q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookmarkDetail
	for rows.Next() {
		var d domain.BookmarkDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.ListingID, &d.CreatedAt, &d.ListingTitle); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) CountBookmarksByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// shared
// ---------------------------------------------------------------------------

func (r *Repo) countBetween(ctx context.Context, table string, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE created_at >= ? AND created_at < ?`,
		from, to).Scan(&n)
	return n, err
}

// requireRow maps a zero-row UPDATE/DELETE to ErrNotFound. The DSN must set
// clientFoundRows=true so a no-op update of an existing row still counts.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
