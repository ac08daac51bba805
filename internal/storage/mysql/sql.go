package mysql

const landlordCols = `
  id, name, location, address,
  average_rating, total_reviews,
  deposit_return_rating, responsiveness_rating, ethics_rating,
  maintenance_rating, communication_rating`

const getLandlordSQL = `SELECT` + landlordCols + `
FROM landlords WHERE id = ?`

// Relies on the table's case-insensitive collation for the exact-name match.
const getLandlordByNameSQL = `SELECT` + landlordCols + `
FROM landlords WHERE name = ?`

const insertLandlordSQL = `
INSERT INTO landlords (name, location, address)
VALUES (?, ?, ?)`

// One logical update for all six derived averages plus the review count.
const updateLandlordRatingsSQL = `
UPDATE landlords SET
  average_rating        = ?,
  total_reviews         = ?,
  deposit_return_rating = ?,
  responsiveness_rating = ?,
  ethics_rating         = ?,
  maintenance_rating    = ?,
  communication_rating  = ?
WHERE id = ?`

const searchLandlordsSQL = `SELECT` + landlordCols + `
FROM landlords
WHERE LOWER(name) LIKE ? OR LOWER(COALESCE(address, '')) LIKE ?
ORDER BY id DESC`

const reviewCols = `
  id, landlord_id, author_name, is_anonymous,
  overall_rating, deposit_return_rating, responsiveness_rating,
  ethics_rating, maintenance_rating, communication_rating,
  content, helpful_votes, not_helpful_votes, created_at`

const getReviewSQL = `SELECT` + reviewCols + `
FROM reviews WHERE id = ?`

const listReviewsByLandlordSQL = `SELECT` + reviewCols + `
FROM reviews
WHERE landlord_id = ?
ORDER BY created_at DESC, id DESC`

const listReviewsSQL = `SELECT` + reviewCols + `
FROM reviews
ORDER BY created_at DESC, id DESC`

const insertReviewSQL = `
INSERT INTO reviews
  (landlord_id, author_name, is_anonymous,
   overall_rating, deposit_return_rating, responsiveness_rating,
   ethics_rating, maintenance_rating, communication_rating, content)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertVoteSQL = `
INSERT INTO votes (review_id, voter_id, is_helpful)
VALUES (?, ?, ?)`

// Relative updates so concurrent votes on the same review never lose an
// increment.
const incrementHelpfulSQL = `
UPDATE reviews SET helpful_votes = helpful_votes + 1 WHERE id = ?`

const incrementNotHelpfulSQL = `
UPDATE reviews SET not_helpful_votes = not_helpful_votes + 1 WHERE id = ?`

const insertContributionSQL = `
INSERT INTO contributions
  (landlord_id, suggested_name, contact_info, how_you_know, contributor_id)
VALUES (?, ?, ?, ?, ?)`

const getContributionSQL = `
SELECT id, landlord_id, suggested_name, contact_info, how_you_know, contributor_id, created_at
FROM contributions WHERE id = ?`
