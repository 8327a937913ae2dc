package mysql

// %s is the placeholder list for the hotel ids.
const getExtractsSQL = `
SELECT hotel_id, arrival_day, extract_day, extracted_at, length_of_stay, point_of_sale, prices
FROM pricing_extracts
WHERE hotel_id IN (%s)
  AND arrival_day >= ? AND arrival_day < ?
  AND extracted_at >= ? AND extracted_at < ?
ORDER BY hotel_id, arrival_day, extracted_at, id`

const latestExtractsSQL = `
SELECT hotel_id, MAX(extracted_at)
FROM pricing_extracts
WHERE hotel_id IN (%s)
GROUP BY hotel_id
ORDER BY hotel_id`
