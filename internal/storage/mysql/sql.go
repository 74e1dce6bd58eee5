package mysql

const insertUserSQL = `
INSERT INTO users
  (full_name, email, password_hash, role, phone)
VALUES
  (?, ?, ?, ?, ?)
`

// userColumns is shared by every user SELECT so scanUser stays in sync.
const userColumns = `
  id, full_name, email, password_hash, role, phone, is_verified,
  dob, gender, profile_image,
  city, district, state, pincode,
  affiliation_type, affiliation_name,
  preferred_city, preferred_district, preferred_state, preferred_pincode,
  preferred_categories, preferred_amenities, preferred_locations,
  budget, sharing_preference,
  created_at, updated_at
`

const getUserSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

const getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

const listUsersSQL = `SELECT ` + userColumns + ` FROM users ORDER BY id`

const saveProfileSQL = `
UPDATE users SET
  full_name            = ?,
  phone                = ?,
  dob                  = ?,
  gender               = ?,
  profile_image        = ?,
  city                 = ?,
  district             = ?,
  state                = ?,
  pincode              = ?,
  affiliation_type     = ?,
  affiliation_name     = ?,
  preferred_city       = ?,
  preferred_district   = ?,
  preferred_state      = ?,
  preferred_pincode    = ?,
  preferred_categories = ?,
  preferred_amenities  = ?,
  preferred_locations  = ?,
  budget               = ?,
  sharing_preference   = ?,
  updated_at           = CURRENT_TIMESTAMP
WHERE id = ?
`

const setVerifiedSQL = `UPDATE users SET is_verified = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

const insertListingSQL = `
INSERT INTO listings
  (title, description, category, provider_name, provider_phone, provider_email,
   address, price, city, state, latitude, longitude, amenities, availability,
   is_active, created_by, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listingColumns = `
  id, title, description, category, provider_name, provider_phone, provider_email,
  address, price, city, state, latitude, longitude, amenities, availability,
  rating, review_count, is_active, created_by, images, created_at, updated_at
`

const getListingSQL = `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`

const listListingsSQL = `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC, id DESC`

const listActiveListingsSQL = `SELECT ` + listingColumns + ` FROM listings WHERE is_active = 1 ORDER BY created_at DESC, id DESC`

// updateListingSQL leaves images alone; updateListingImagesSQL replaces them.
const updateListingSQL = `
UPDATE listings SET
  title          = ?,
  description    = ?,
  category       = ?,
  provider_name  = ?,
  provider_phone = ?,
  provider_email = ?,
  address        = ?,
  price          = ?,
  city           = ?,
  state          = ?,
  latitude       = ?,
  longitude      = ?,
  amenities      = ?,
  availability   = ?,
  is_active      = ?,
  updated_at     = CURRENT_TIMESTAMP
WHERE id = ?
`

const updateListingImagesSQL = `UPDATE listings SET images = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

const setAvailabilitySQL = `UPDATE listings SET availability = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

const titleAddressExistsSQL = `
SELECT EXISTS(
  SELECT 1 FROM listings WHERE LOWER(title) = LOWER(?) AND LOWER(address) = LOWER(?)
)`

const locationExistsSQL = `
SELECT EXISTS(
  SELECT 1 FROM listings
  WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
)`

const insertReviewSQL = `
INSERT INTO reviews (user_id, listing_id, rating, comment, is_approved, created_at)
VALUES (?, ?, ?, ?, 0, COALESCE(?, CURRENT_TIMESTAMP))
`

// recountListingSQL refreshes review_count from a fresh COUNT. Always run in
// the same transaction as the review mutation it follows.
const recountListingSQL = `
UPDATE listings
SET review_count = (SELECT COUNT(*) FROM reviews WHERE listing_id = ?)
WHERE id = ?
`

const reviewColumns = `r.id, r.user_id, r.listing_id, r.rating, r.comment, r.is_approved, r.created_at`

const getReviewSQL = `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.id = ?`

const listReviewsPrefix = `
SELECT ` + reviewColumns + `, u.full_name, l.title
FROM reviews r
JOIN users u    ON u.id = r.user_id
JOIN listings l ON l.id = r.listing_id
`

const updateReviewSQL = `UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`

const setApprovedSQL = `UPDATE reviews SET is_approved = ? WHERE id = ?`

const reviewTotalsSQL = `
SELECT
  COUNT(*),
  COALESCE(SUM(is_approved), 0),
  COALESCE(SUM(rating >= 4), 0),
  COALESCE(AVG(rating), 0)
FROM reviews
`

const insertBookmarkSQL = `INSERT INTO bookmarks (user_id, listing_id) VALUES (?, ?)`

const getBookmarkSQL = `SELECT id, user_id, listing_id, created_at FROM bookmarks WHERE id = ?`

const findBookmarkSQL = `SELECT id, user_id, listing_id, created_at FROM bookmarks WHERE user_id = ? AND listing_id = ?`

const listBookmarksPrefix = `
SELECT b.id, b.user_id, b.listing_id, b.created_at, l.title
FROM bookmarks b
JOIN listings l ON l.id = b.listing_id
`
